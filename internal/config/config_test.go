package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Set only required env var
	os.Setenv("MONGO_URI", "mongodb://localhost:27017/test")
	defer os.Unsetenv("MONGO_URI")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Database.Name != "vendas" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "vendas")
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Errorf("Auth.TokenTTL = %v, want %v", cfg.Auth.TokenTTL, 30*time.Minute)
	}
	if cfg.Upload.MaxFileSize != 10485760 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 10485760)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://localhost:27017/test")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("TOKEN_TTL", "15m")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("MONGO_URI")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("TOKEN_TTL")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Errorf("Auth.TokenTTL = %v, want %v", cfg.Auth.TokenTTL, 15*time.Minute)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that MONGODB_URI works as fallback
	os.Setenv("MONGODB_URI", "mongodb://alt:27017/alttest")
	defer os.Unsetenv("MONGODB_URI")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URI != "mongodb://alt:27017/alttest" {
		t.Errorf("Database.URI = %q, want %q", cfg.Database.URI, "mongodb://alt:27017/alttest")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	// Ensure MONGO_URI is not set
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("MONGODB_URI")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for missing MONGO_URI")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://localhost:27017/test")
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("MONGO_CONNECT_TIMEOUT", "1m30s")
	defer func() {
		os.Unsetenv("MONGO_URI")
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("MONGO_CONNECT_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Database.ConnectTimeout != 90*time.Second {
		t.Errorf("Database.ConnectTimeout = %v, want %v", cfg.Database.ConnectTimeout, 90*time.Second)
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	os.Setenv("MONGO_URI", "mongodb://localhost:27017/test")
	os.Setenv("TRUSTED_PROXIES", "10.0.0.1, 192.168.0.0/16")
	defer func() {
		os.Unsetenv("MONGO_URI")
		os.Unsetenv("TRUSTED_PROXIES")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"10.0.0.1", "192.168.0.0/16"}
	if len(cfg.Server.TrustedProxies) != len(want) {
		t.Fatalf("Server.TrustedProxies = %v, want %v", cfg.Server.TrustedProxies, want)
	}
	for i, p := range want {
		if cfg.Server.TrustedProxies[i] != p {
			t.Errorf("Server.TrustedProxies[%d] = %q, want %q", i, cfg.Server.TrustedProxies[i], p)
		}
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "bad port",
			env:  map[string]string{"SERVER_PORT": "70000"},
		},
		{
			name: "non-numeric port",
			env:  map[string]string{"SERVER_PORT": "not-a-port"},
		},
		{
			name: "bad duration",
			env:  map[string]string{"TOKEN_TTL": "thirty minutes"},
		},
		{
			name: "bad log level",
			env:  map[string]string{"LOG_LEVEL": "verbose"},
		},
		{
			name: "zero file size",
			env:  map[string]string{"UPLOAD_MAX_FILE_SIZE": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("MONGO_URI", "mongodb://localhost:27017/test")
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			defer func() {
				os.Unsetenv("MONGO_URI")
				for k := range tt.env {
					os.Unsetenv(k)
				}
			}()

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s", tt.name)
			}
		})
	}
}

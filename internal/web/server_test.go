package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendas-backend/internal/auth"
	"vendas-backend/internal/config"
	"vendas-backend/internal/core"
	"vendas-backend/internal/store"
)

const testSecret = "test-secret"

type testEnv struct {
	server   *Server
	products *store.MemoryProducts
	sales    *store.MemorySales
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.RequestTimeout = time.Minute
	cfg.Auth.SecretKey = testSecret
	cfg.Auth.TokenTTL = 30 * time.Minute
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Rate.Enabled = false

	products := store.NewMemoryProducts()
	sales := store.NewMemorySales()
	users := store.NewMemoryUsers()
	users.Add("admin", "123")

	return &testEnv{
		server:   NewServer(core.NewService(products, sales, users), cfg),
		products: products,
		sales:    sales,
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seed(t *testing.T, name string, price float64) string {
	t.Helper()

	id, err := e.products.Insert(context.Background(), &core.Product{
		Name: name, Price: price, Stock: 10,
	})
	require.NoError(t, err)
	return id
}

func validToken(t *testing.T) string {
	t.Helper()

	token, err := auth.Issue("admin", []byte(testSecret), time.Now(), 30*time.Minute)
	require.NoError(t, err)
	return token
}

func TestRequireToken_DistinctFailures(t *testing.T) {
	env := newTestEnv(t)

	expired, err := auth.Issue("admin", []byte(testSecret), time.Now().Add(-time.Hour), 30*time.Minute)
	require.NoError(t, err)
	foreign, err := auth.Issue("admin", []byte("other-secret"), time.Now(), 30*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{name: "no header", header: "", wantMsg: "Token não encontrado!"},
		{name: "scheme only", header: "Bearer", wantMsg: "Token malformado!"},
		{name: "empty token", header: "Bearer ", wantMsg: "Token malformado!"},
		{name: "garbage token", header: "Bearer not.a.token", wantMsg: "Token malformado!"},
		{name: "expired token", header: "Bearer " + expired, wantMsg: "Token expirou!"},
		{name: "wrong secret", header: "Bearer " + foreign, wantMsg: "Token inválido!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/produtos",
				strings.NewReader(`{"name":"Camiseta","price":29.9,"stock":10}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := env.do(t, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestCreateProduct_HTTP(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/produtos",
		strings.NewReader(`{"name":"Camiseta","price":29.9,"description":"100% algodão","stock":50}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+validToken(t))

	rec := env.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "Camiseta")
	assert.Contains(t, body["message"], "criado com sucesso")
}

func TestCreateProduct_ValidationHTTP(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/produtos",
		strings.NewReader(`{"name":"Camiseta","price":-1,"stock":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+validToken(t))

	rec := env.do(t, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []core.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "price", body.Errors[0].Field)
}

func TestGetProduct_HTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, "Caneca", 19.9)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/produto/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var p core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Caneca", p.Name)

	// Malformed id is a client error, not a miss
	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/produto/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/produto/64f000000000000000000001", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "Caneca", 19.9)
	env.seed(t, "Camiseta", 29.9)

	req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
	req.Header.Set("Accept", "application/json")

	rec := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)
}

func TestUpdateProduct_HTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, "Caneca", 19.9)
	token := validToken(t)

	req := httptest.NewRequest(http.MethodPut, "/produto/"+id,
		strings.NewReader(`{"price":24.5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var p core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Caneca", p.Name, "fields absent from the patch stay put")
	assert.InDelta(t, 24.5, p.Price, 0.001)

	// An empty patch is rejected before touching the store
	req = httptest.NewRequest(http.MethodPut, "/produto/"+id, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, env.do(t, req).Code)

	req = httptest.NewRequest(http.MethodPut, "/produto/64f000000000000000000001",
		strings.NewReader(`{"price":24.5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, env.do(t, req).Code)
}

func TestDeleteProduct_HTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, "Caneca", 19.9)
	token := validToken(t)

	del := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/produto/"+id, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return env.do(t, req)
	}

	rec := del()
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, del().Code)
}

func multipartCSV(t *testing.T, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	fw, err := mp.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, mp.Close())
	return &buf, mp.FormDataContentType()
}

func TestImportSales_HTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, "Camiseta", 29.9)

	csv := "sale_date,product_id,quantity,total_value\n" +
		fmt.Sprintf("2024-05-01,%s,2,59.80\n", id) +
		"2024-05-02,64f000000000000000000001,1,10.00\n"

	body, contentType := multipartCSV(t, "vendas.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/vendas/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message  string   `json:"message"`
		Imported int      `json:"vendas_importadas"`
		Errors   []string `json:"erros_encontrados"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Upload processado com sucesso.", resp.Message)
	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "não encontrado")

	assert.Len(t, env.sales.Committed(), 1)
}

func TestImportSales_HTTPRejections(t *testing.T) {
	env := newTestEnv(t)

	t.Run("wrong extension", func(t *testing.T) {
		body, contentType := multipartCSV(t, "vendas.txt", "sale_date\n")
		req := httptest.NewRequest(http.MethodPost, "/vendas/upload", body)
		req.Header.Set("Content-Type", contentType)

		rec := env.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "envie um arquivo .csv")
	})

	t.Run("file part with empty filename", func(t *testing.T) {
		// What a browser sends when the form is submitted with no file
		// chosen: a "file" part whose filename is empty
		var buf bytes.Buffer
		mp := multipart.NewWriter(&buf)
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename=""`)
		_, err := mp.CreatePart(h)
		require.NoError(t, err)
		require.NoError(t, mp.Close())

		req := httptest.NewRequest(http.MethodPost, "/vendas/upload", &buf)
		req.Header.Set("Content-Type", mp.FormDataContentType())

		rec := env.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Nenhum arquivo selecionado")
	})

	t.Run("missing file part", func(t *testing.T) {
		var buf bytes.Buffer
		mp := multipart.NewWriter(&buf)
		require.NoError(t, mp.WriteField("other", "value"))
		require.NoError(t, mp.Close())

		req := httptest.NewRequest(http.MethodPost, "/vendas/upload", &buf)
		req.Header.Set("Content-Type", mp.FormDataContentType())

		rec := env.do(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Nenhum arquivo enviado")
	})
}

func TestLogin_HTTP(t *testing.T) {
	env := newTestEnv(t)

	login := func(username, password string) *httptest.ResponseRecorder {
		form := fmt.Sprintf("username=%s&password=%s", username, password)
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return env.do(t, req)
	}

	t.Run("bad credentials flash and bounce back", func(t *testing.T) {
		rec := login("admin", "wrong")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))

		var flash *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "flash" {
				flash = c
			}
		}
		require.NotNil(t, flash)
		assert.NotEmpty(t, flash.Value)
	})

	t.Run("good credentials set the session", func(t *testing.T) {
		rec := login("admin", "123")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		var session *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "jwt_token" {
				session = c
			}
		}
		require.NotNil(t, session)
		assert.True(t, session.HttpOnly)

		claims, err := auth.Validate(session.Value, []byte(testSecret), time.Now())
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
	})
}

func TestPages_SessionGate(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/dashboard", "/vendas/upload", "/produtos"} {
		t.Run(path, func(t *testing.T) {
			rec := env.do(t, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}

	t.Run("with session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: "jwt_token", Value: validToken(t)})

		rec := env.do(t, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

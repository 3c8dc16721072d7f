package web

import (
	"errors"
	"net/http"
	"time"

	"vendas-backend/internal/auth"
	"vendas-backend/internal/core"
	"vendas-backend/internal/logging"
)

// handleLoginPage renders the login form, surfacing a flashed error from
// a previous attempt if one is pending.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	flash := popFlash(w, r)
	s.renderPage(w, r, "login.html", pageData{Title: "Login", Flash: flash})
}

// handleLogin checks the submitted credentials. On match it issues a
// token with a fixed 30-minute expiry, stores it in the session cookie
// and redirects to the dashboard; on mismatch it flashes an error and
// redirects back. No token is returned in the response body.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if err := s.service.VerifyCredentials(r.Context(), username, password); err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			setFlash(w, "Usuário ou senha inválidos.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		s.respondError(w, r, err)
		return
	}

	token, err := auth.Issue(username, []byte(s.cfg.Auth.SecretKey), time.Now(), s.cfg.Auth.TokenTTL)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	setSession(w, token)
	logging.FromContext(r.Context()).Info("user logged in", "username", username)

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

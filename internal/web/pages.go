package web

import (
	"embed"
	"html/template"
	"net/http"

	"vendas-backend/internal/logging"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// pageData is what the page templates render.
type pageData struct {
	Title    string
	Flash    string
	Products []productRow
}

// productRow is one catalog row as shown on the products page, with the
// price already formatted in Reais.
type productRow struct {
	ID          string
	Name        string
	Price       string
	Description string
	Stock       int
}

// renderPage executes one of the embedded page templates.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		logging.FromContext(r.Context()).Error("render page", "template", name, "error", err)
	}
}

// handleIndex routes the browser to the dashboard or the login page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if hasSession(r) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// handleDashboard renders the landing page after login.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "dashboard.html", pageData{Title: "Dashboard"})
}

// handleUploadPage renders the sales upload form.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "upload_sales.html", pageData{Title: "Upload de Vendas"})
}

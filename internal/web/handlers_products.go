package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vendas-backend/internal/core"
	"vendas-backend/internal/logging"
	mw "vendas-backend/internal/web/middleware"
)

// logMutation records which authenticated user changed the catalog.
func logMutation(r *http.Request, action, productID string) {
	if subject, ok := mw.SubjectFromContext(r.Context()); ok {
		logging.WithFields(r.Context(), "user", subject).Info("catalog mutation",
			"action", action,
			"product_id", productID,
		)
	}
}

// handleListProducts returns the catalog. Browsers get the rendered
// products page (behind the session gate); API clients asking for JSON
// get the raw collection.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		products, err := s.service.ListProducts(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
		return
	}

	if !hasSession(r) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	products, err := s.service.ListProducts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow{
			ID:          p.ID.Hex(),
			Name:        p.Name,
			Price:       core.FormatCurrency(p.Price),
			Description: p.Description,
			Stock:       p.Stock,
		})
	}

	s.renderPage(w, r, "products.html", pageData{Title: "Produtos", Products: rows})
}

// handleGetProduct returns one product by id. A malformed id is a 400,
// distinct from the 404 of an unknown one.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := s.service.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// handleCreateProduct validates and inserts a new product.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in core.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	product, err := s.service.CreateProduct(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logMutation(r, "create", product.ID.Hex())
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("Produto (%s) com o id (%s) criado com sucesso!", product.Name, product.ID.Hex()),
	})
}

// handleUpdateProduct applies a partial patch and returns the updated
// product. Unknown ids are 404; nothing is created implicitly.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch core.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	product, err := s.service.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logMutation(r, "update", id)
	writeJSON(w, http.StatusOK, product)
}

// handleDeleteProduct removes a product, answering 204 with an empty
// body on success.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.service.DeleteProduct(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	logMutation(r, "delete", id)
	w.WriteHeader(http.StatusNoContent)
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

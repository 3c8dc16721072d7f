package web

import (
	"net/http"

	"vendas-backend/internal/core"
)

// importResponse is the wire envelope of a processed upload. Rejected
// rows ride along with the count; their presence does not make the
// request a failure.
type importResponse struct {
	Message  string   `json:"message"`
	Imported int      `json:"vendas_importadas"`
	Errors   []string `json:"erros_encontrados"`
}

// handleImportSales ingests a multipart CSV of sales rows.
func (s *Server) handleImportSales(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "arquivo muito grande ou formulário inválido")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// A browser submitting with no file chosen sends a "file" part
		// with an empty filename, which the multipart reader files under
		// the form values rather than the form files.
		if r.MultipartForm != nil {
			if _, ok := r.MultipartForm.Value["file"]; ok {
				s.respondError(w, r, core.ErrEmptyFilename)
				return
			}
		}
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	report, err := s.service.ImportSales(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Message:  "Upload processado com sucesso.",
		Imported: report.Imported,
		Errors:   report.Errors,
	})
}

package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/ukaji3/sheetsections-go/internal/logging"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/output"
)

// RowsResponse is the flat view of one sheet.
type RowsResponse struct {
	Name    string       `json:"name"`
	GID     string       `json:"gid,omitempty"`
	Columns []string     `json:"columns"`
	Rows    []models.Row `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	wb, err := s.loader.Workbook(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, wb)
}

func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.loader.Sheet(r.Context(), chi.URLParam(r, "gid"), false)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, sheet)
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	sheet, err := s.loader.Sheet(r.Context(), chi.URLParam(r, "gid"), true)
	if err != nil {
		renderError(w, r, err)
		return
	}
	rows := sheet.Rows
	if rows == nil {
		rows = []models.Row{}
	}
	render.JSON(w, r, RowsResponse{
		Name:    sheet.Name,
		GID:     sheet.GID,
		Columns: sheet.Columns,
		Rows:    rows,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	cat := output.Lookup(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	title := s.cfg.Sheet.Title
	if title == "" {
		title = cat.AppTitle
	}

	status := http.StatusOK
	var page output.Page
	wb, err := s.loader.Workbook(r.Context())
	if err != nil {
		apiErr := errorFromLoad(err)
		status = apiErr.StatusCode
		logging.FromContext(r.Context()).Warn("rendering error page", "error", err)
		page = output.ErrorPage(title, err, cat)
	} else {
		wb.Title = title
		page = output.NewPage(wb, cat)
	}

	var buf bytes.Buffer
	if err := output.RenderHTML(&buf, page); err != nil {
		renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", cat.Lang)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

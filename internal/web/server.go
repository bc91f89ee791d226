// Package web serves the sidebar fragment and the JSON endpoints the
// sidebar calls for tag creation, reordering, view toggles and message
// read state.
package web

import (
	"bytes"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/lu-zhengda/tagside/internal/app"
	"github.com/lu-zhengda/tagside/internal/sidebar"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxBodyBytes = 64 << 10

// Server binds a TagService to a sidebar Renderer over HTTP.
type Server struct {
	tags     *app.TagService
	messages *app.MessageService
	renderer *sidebar.Renderer
	page     *template.Template
	lang     string
}

// NewServer creates a Server. lang is written to the page shell's html tag.
func NewServer(tags *app.TagService, messages *app.MessageService, renderer *sidebar.Renderer, lang string) (*Server, error) {
	page, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	if lang == "" {
		lang = "en"
	}
	return &Server{tags: tags, messages: messages, renderer: renderer, page: page, lang: lang}, nil
}

// Handler returns the HTTP handler, mounted under the renderer's base path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /in/{slug}/", s.handleIndex)
	mux.HandleFunc("GET /sidebar", s.handleSidebar)
	mux.HandleFunc("POST /api/tags", s.handleCreateTag)
	mux.HandleFunc("POST /api/tags/order", s.handleReorder)
	mux.HandleFunc("POST /api/tags/{id}/subtags/toggle", s.handleToggleSubtags)
	mux.HandleFunc("POST /api/sidebar/organize", s.handleToggleOrganize)
	mux.HandleFunc("POST /api/messages/{id}/read", s.handleMarkRead)
	mux.HandleFunc("DELETE /api/messages/{id}", s.handleDeleteMessage)

	var h http.Handler = mux
	if base := strings.TrimRight(s.renderer.BasePath(), "/"); base != "" {
		h = http.StripPrefix(base, mux)
	}
	return withSecurityHeaders(h)
}

type pageModel struct {
	Lang     string
	Title    string
	BasePath string
	Query    string
	Sidebar  template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if slug := r.PathValue("slug"); slug != "" {
		query = "in:" + slug
	}
	fragment, err := s.sidebar(r, query)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, "page", pageModel{
		Lang:     s.lang,
		Title:    "tagside",
		BasePath: s.renderer.BasePath(),
		Query:    query,
		Sidebar:  fragment,
	}); err != nil {
		writeError(w, fmt.Errorf("failed to render page: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	fragment, err := s.sidebar(r, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(fragment))
}

func (s *Server) sidebar(r *http.Request, query string) (template.HTML, error) {
	priority, regular, cfg, err := s.tags.Sidebar(r.Context(), query)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(priority, regular, cfg)
}

type createTagRequest struct {
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	LabelColor string `json:"label_color"`
	Display    string `json:"display"`
	Parent     int64  `json:"parent"`
}

type createTagResponse struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	HTML         string `json:"html"`
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	tag, err := s.tags.CreateTag(r.Context(), app.CreateTagRequest{
		Name:       req.Name,
		Icon:       req.Icon,
		LabelColor: req.LabelColor,
		Display:    req.Display,
		ParentID:   req.Parent,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	row, err := s.renderer.RenderNewItem(tag, s.tags.Palette())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createTagResponse{
		ID:           tag.ID,
		Slug:         tag.Slug,
		Name:         tag.Name,
		DisplayOrder: tag.DisplayOrder,
		HTML:         string(row),
	})
}

type reorderRequest struct {
	IDs []int64 `json:"ids"`
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.tags.Reorder(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleSubtags(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, fmt.Errorf("%w: bad tag id %q", app.ErrInvalidTag, r.PathValue("id")))
		return
	}
	collapsed, err := s.tags.ToggleSubtags(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"collapsed": collapsed})
}

func (s *Server) handleToggleOrganize(w http.ResponseWriter, r *http.Request) {
	on, err := s.tags.ToggleOrganize(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"organizing": on})
}

type markReadRequest struct {
	Read *bool `json:"read"`
}

type markReadResponse struct {
	ID   string `json:"id"`
	Read bool   `json:"read"`
}

// handleMarkRead sets a message's read flag. An empty body marks it read.
func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	read := true
	if r.ContentLength != 0 {
		var req markReadRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Read != nil {
			read = *req.Read
		}
	}
	email, err := s.messages.MarkRead(r.Context(), r.PathValue("id"), read)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markReadResponse{ID: email.ID, Read: email.IsRead})
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := s.messages.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", app.ErrInvalidTag, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[web] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrInvalidTag):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrDuplicateSlug):
		status = http.StatusConflict
	case errors.Is(err, sql.ErrNoRows):
		status = http.StatusNotFound
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[web] %v", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; base-uri 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

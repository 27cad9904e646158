package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/AnasShams/reddit-persona-generator/internal/database"
	"github.com/AnasShams/reddit-persona-generator/internal/pipeline"
	"github.com/AnasShams/reddit-persona-generator/internal/reddit"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for generating and browsing personas.
type Server struct {
	db    *database.DB
	pipe  *pipeline.Pipeline
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB, pipe *pipeline.Pipeline) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "persona.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, pipe: pipe, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Routes
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/generate", s.handleGenerate)
	s.mux.HandleFunc("/persona/", s.handlePersona)
	s.mux.HandleFunc("/download/", s.handleDownload)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	reports, err := s.db.GetAllReports()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "index.html", map[string]any{
		"Reports": reports,
		"Error":   r.URL.Query().Get("error"),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	profile := strings.TrimSpace(r.FormValue("profile"))
	username, err := reddit.ExtractUsername(profile)
	if err != nil {
		s.redirectWithError(w, r, "Please enter a username or a reddit.com/user/... URL")
		return
	}

	result := s.pipe.Run(r.Context(), username, false)
	for _, step := range result.Steps {
		if step.Err == nil {
			continue
		}
		log.Printf("Generate failed at %s for u/%s: %v", step.Name, username, step.Err)
		if errors.Is(step.Err, reddit.ErrNotFound) {
			s.redirectWithError(w, r, fmt.Sprintf("u/%s not found or has no public content", username))
		} else {
			s.redirectWithError(w, r, "Failed to generate persona, see server log")
		}
		return
	}

	http.Redirect(w, r, "/persona/"+url.PathEscape(username), http.StatusFound)
}

func (s *Server) handlePersona(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(r.URL.Path, "/persona/")
	if username == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	report, err := s.db.GetReport(username)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		s.redirectWithError(w, r, fmt.Sprintf("No stored persona for u/%s", username))
		return
	}

	s.render(w, "persona.html", map[string]any{
		"Report": report,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(r.URL.Path, "/download/")
	if username == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	report, err := s.db.GetReport(username)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", username+"_persona.md"))
	fmt.Fprint(w, report.ReportMarkdown)
}

func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, pipe *pipeline.Pipeline, port int) error {
	srv, err := New(db, pipe)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}

// Package web serves the operator-facing pages: workbook upload, import
// progress, zone filtering, pulling selection, and the priority matrix.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"wellpull/internal/audit"
	"wellpull/internal/dataset"
	"wellpull/internal/jobs"
)

// Web holds the page handlers and their dependencies.
type Web struct {
	sessions  *SessionStore
	datasets  *dataset.Store
	jobStore  *jobs.Store
	worker    *jobs.Worker
	audits    *audit.Store
	uploadDir string

	tmpl      *template.Template
	guideHTML template.HTML
}

// New creates the web frontend.
func New(sessions *SessionStore, datasets *dataset.Store, jobStore *jobs.Store, worker *jobs.Worker, audits *audit.Store, uploadDir string) (*Web, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	var guide bytes.Buffer
	if err := goldmark.Convert(guideMD, &guide); err != nil {
		return nil, fmt.Errorf("rendering guide: %w", err)
	}

	return &Web{
		sessions:  sessions,
		datasets:  datasets,
		jobStore:  jobStore,
		worker:    worker,
		audits:    audits,
		uploadDir: uploadDir,
		tmpl:      tmpl,
		guideHTML: template.HTML(guide.String()),
	}, nil
}

// RegisterRoutes mounts all page routes onto the given router.
func (web *Web) RegisterRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/upload", http.StatusSeeOther)
	})
	r.Get("/upload", web.getUpload)
	r.Post("/upload", web.postUpload)
	r.Get("/jobs/{id}", web.getJobPage)
	r.Get("/preview", web.getPreview)
	r.Get("/filter", web.getFilter)
	r.Post("/filter", web.postFilter)
	r.Get("/select", web.getSelect)
	r.Post("/select", web.postSelect)
	r.Get("/assign", web.getAssign)
	r.Get("/ayuda", web.getGuide)
	r.Handle("/static/*", http.FileServerFS(staticFS))
}

// pageData is the payload every template receives.
type pageData struct {
	Title   string
	Flashes []string
	Data    interface{}
}

// render executes the named page template with popped flash messages plus
// any extra messages produced by the handler itself.
func (web *Web) render(w http.ResponseWriter, r *http.Request, name, title string, data interface{}, extraFlashes ...string) {
	flashes := append(popFlashes(w, r), extraFlashes...)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.tmpl.ExecuteTemplate(w, name, pageData{Title: title, Flashes: flashes, Data: data}); err != nil {
		log.Printf("web: render %s: %v", name, err)
	}
}

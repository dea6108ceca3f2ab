package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mrowtown/cali-votes/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// View is the base payload every page template receives. Session drives the
// banner partial in the layout.
type View struct {
	Title   string
	Session domain.Session
}

// Renderer executes page templates against the shared layout. Each page is
// parsed together with the layout so its "content" block slots in.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() *Renderer {
	names := []string{"register", "landing", "vote", "pay", "upload_entry", "upload", "leaderboard"}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		pages[name] = template.Must(template.ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return &Renderer{pages: pages}
}

func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := rn.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("render failed", "page", page, "err", err)
	}
}

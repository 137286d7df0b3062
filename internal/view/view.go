// Package view is the rendering collaborator: it receives a context map
// and writes a document. It never mutates domain state.
package view

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/middleware"
	"github.com/wrenchworks/repair-shop-service/internal/session"
)

// Renderer renders named page templates with a shared layout.
type Renderer struct {
	templates *template.Template
	log       *zap.Logger
}

// New parses all templates under dir.
func New(dir string, log *zap.Logger) (*Renderer, error) {
	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl, log: log}, nil
}

// Render writes the named page with the given context map, injecting the
// pending flash advisory and the authenticated identity under "Flash" and
// "User". data may be nil.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		if flash := session.PopFlash(w, r); flash != nil {
			data["Flash"] = flash
		}
	}
	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		data["User"] = identity
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := v.templates.ExecuteTemplate(w, name, data); err != nil {
		v.log.Error("failed to render template", zap.String("template", name), zap.Error(err))
	}
}

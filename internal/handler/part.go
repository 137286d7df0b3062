package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wrenchworks/repair-shop-service/internal/models"
	"github.com/wrenchworks/repair-shop-service/internal/service"
	"github.com/wrenchworks/repair-shop-service/internal/session"
	"github.com/wrenchworks/repair-shop-service/internal/view"
)

// PartHandler serves the warehouse list and the part creation form.
type PartHandler struct {
	parts *service.PartService
	view  *view.Renderer
	log   *zap.Logger
}

// NewPartHandler creates a new part handler
func NewPartHandler(parts *service.PartService, v *view.Renderer, log *zap.Logger) *PartHandler {
	return &PartHandler{parts: parts, view: v, log: log}
}

// List renders the warehouse inventory
func (h *PartHandler) List(w http.ResponseWriter, r *http.Request) {
	parts, err := h.parts.ListParts(r.Context())
	if err != nil {
		h.log.Error("failed to list parts", zap.Error(err))
		session.SetFlash(w, "danger", "Could not load the warehouse.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.view.Render(w, r, http.StatusOK, "warehouse.html", map[string]any{"Parts": parts})
}

// AddForm renders the part creation form
func (h *PartHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "part_form.html", nil)
}

// Add handles the part creation form post. Rejected input re-presents the
// form with the submitted values.
func (h *PartHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.view.Render(w, r, http.StatusBadRequest, "part_form.html", advisory("danger", "Invalid form submission."))
		return
	}

	req := models.PartRequest{
		Name:  r.PostFormValue("name"),
		Price: r.PostFormValue("price"),
		Stock: r.PostFormValue("stock"),
	}

	if _, err := h.parts.CreatePart(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrPartNameRequired),
			errors.Is(err, service.ErrBadPrice),
			errors.Is(err, service.ErrBadStock):
			data := advisory("danger", advisoryText(err))
			data["Form"] = req
			h.view.Render(w, r, http.StatusOK, "part_form.html", data)
		default:
			h.log.Error("failed to create part", zap.Error(err))
			h.view.Render(w, r, http.StatusInternalServerError, "part_form.html",
				advisory("danger", "Something went wrong, please try again."))
		}
		return
	}

	session.SetFlash(w, "success", "Part added to the warehouse.")
	http.Redirect(w, r, "/warehouse", http.StatusSeeOther)
}

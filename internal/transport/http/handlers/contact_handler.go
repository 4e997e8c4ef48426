package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	contactsvc "github.com/EricSteeles/Curb-Alert/internal/services/contact"
	itemsvc "github.com/EricSteeles/Curb-Alert/internal/services/items"
	"github.com/EricSteeles/Curb-Alert/internal/transport/http/dto"
	httperrors "github.com/EricSteeles/Curb-Alert/internal/transport/http/errors"
)

type ContactHandler struct {
	items *itemsvc.Service
}

func NewContactHandler(items *itemsvc.Service) *ContactHandler {
	return &ContactHandler{items: items}
}

// Options returns the ways to reach a poster without ever exposing which
// classification failed: an unparseable contact just yields no options.
func (h *ContactHandler) Options(w http.ResponseWriter, r *http.Request) {
	if h.items == nil {
		writeInternal(w, "ITEMS_SERVICE_UNAVAILABLE", "items service is unavailable")
		return
	}

	item, err := h.items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleItemsError(w, err)
		return
	}

	kind, options := contactsvc.Options(item.Contact, item.Title, item.Location)

	display := item.Contact
	if kind == contactsvc.KindPhone {
		display = contactsvc.FormatPhoneNumber(item.Contact)
	}
	if kind == contactsvc.KindNone {
		display = ""
	}

	resp := dto.ContactOptionsResponse{
		Kind:    string(kind),
		Display: display,
		Options: make([]dto.ContactOption, 0, len(options)),
	}
	for _, option := range options {
		resp.Options = append(resp.Options, dto.ContactOption{Label: option.Label, HRef: option.HRef})
	}

	httperrors.Write(w, http.StatusOK, resp)
}

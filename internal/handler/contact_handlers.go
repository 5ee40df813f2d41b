package handler

import (
	"context"
	"net/http"

	"github.com/mtlprog/contacts/internal/domain"
	"github.com/mtlprog/contacts/internal/handler/dto"
	"github.com/mtlprog/contacts/internal/middleware"
)

// ContactStore is the persistence the contact router relies on.
type ContactStore interface {
	List(ctx context.Context) ([]domain.Contact, error)
	GetByID(ctx context.Context, id string) (domain.Contact, error)
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	Replace(ctx context.Context, id string, contact domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, id string) error
}

// ContactRouter is the default router mounted under /api/contacts. It stores
// contacts as schemaless JSON documents. Paths are relative to the mount point.
type ContactRouter struct {
	store ContactStore
	mux   *http.ServeMux
}

// NewContactRouter creates a ContactRouter backed by store.
func NewContactRouter(store ContactStore) *ContactRouter {
	cr := &ContactRouter{
		store: store,
		mux:   http.NewServeMux(),
	}

	cr.mux.HandleFunc("GET /{$}", cr.handleList)
	cr.mux.HandleFunc("POST /{$}", cr.handleCreate)
	cr.mux.HandleFunc("GET /{id}", cr.handleGet)
	cr.mux.HandleFunc("PUT /{id}", cr.handleReplace)
	cr.mux.HandleFunc("DELETE /{id}", cr.handleDelete)
	cr.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		dto.WriteError(w, http.StatusNotFound, dto.CodeNotFound, "route not found")
	})

	return cr
}

// ServeHTTP implements http.Handler.
func (cr *ContactRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cr.mux.ServeHTTP(w, r)
}

// handleList returns all contacts.
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Success 200 {array} object
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/contacts [get]
func (cr *ContactRouter) handleList(w http.ResponseWriter, r *http.Request) {
	contacts, err := cr.store.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, contacts)
}

// handleCreate stores the request body as a new contact.
// @Summary Create a contact
// @Description Stores the JSON object as-is; the server assigns _id.
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body object true "Contact document"
// @Success 201 {object} object
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/contacts [post]
func (cr *ContactRouter) handleCreate(w http.ResponseWriter, r *http.Request) {
	contact, ok := contactFromRequest(w, r)
	if !ok {
		return
	}

	created, err := cr.store.Create(r.Context(), contact)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dto.WriteJSON(w, http.StatusCreated, created)
}

// handleGet returns a single contact.
// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} object
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/contacts/{id} [get]
func (cr *ContactRouter) handleGet(w http.ResponseWriter, r *http.Request) {
	contact, err := cr.store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, contact)
}

// handleReplace overwrites a contact with the request body.
// @Summary Replace a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param request body object true "Contact document"
// @Success 200 {object} object
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/contacts/{id} [put]
func (cr *ContactRouter) handleReplace(w http.ResponseWriter, r *http.Request) {
	contact, ok := contactFromRequest(w, r)
	if !ok {
		return
	}

	replaced, err := cr.store.Replace(r.Context(), r.PathValue("id"), contact)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, replaced)
}

// handleDelete removes a contact.
// @Summary Delete a contact
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/contacts/{id} [delete]
func (cr *ContactRouter) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := cr.store.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	dto.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Message: "contact deleted", ID: id})
}

// contactFromRequest extracts the JSON object payload parsed by the body middleware.
// Returns (contact, true) if valid, (nil, false) if invalid (error already sent to client).
func contactFromRequest(w http.ResponseWriter, r *http.Request) (domain.Contact, bool) {
	payload, ok := middleware.Payload(r.Context())
	if !ok {
		respondDomainError(w, domain.ErrInvalidDocument)
		return nil, false
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		respondDomainError(w, domain.ErrInvalidDocument)
		return nil, false
	}
	return domain.Contact(obj), true
}

func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	dto.WriteError(w, status, code, message)
}

package card

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardstudio/internal/card/model"
	"cardstudio/internal/card/repository"
	"cardstudio/internal/card/service"
	"cardstudio/middleware"
	"cardstudio/pkg/httpjson"
)

type CardHandler struct {
	Service *service.CardService
}

func NewCardHandler(svc *service.CardService) *CardHandler {
	return &CardHandler{Service: svc}
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var req model.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Title and fields required")
		return
	}
	if req.Title == "" || req.Fields == nil {
		httpjson.Error(w, http.StatusBadRequest, "Title and fields required")
		return
	}

	created, err := h.Service.Create(identity.ID, req)
	if err != nil {
		httpjson.ServerError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}

	cards, err := h.Service.List(identity.ID)
	if err != nil {
		httpjson.ServerError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, cards)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}

	found, err := h.Service.Get(identity.ID, r.PathValue("id"))
	if err != nil {
		h.writeCardError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, found)
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}

	var patch model.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.Service.Update(identity.ID, r.PathValue("id"), patch)
	if err != nil {
		h.writeCardError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "No token provided")
		return
	}

	if err := h.Service.Delete(identity.ID, r.PathValue("id")); err != nil {
		h.writeCardError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, model.DeleteResponse{Success: true})
}

func (h *CardHandler) writeCardError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		// Absence and ownership mismatch are deliberately the same answer.
		httpjson.Error(w, http.StatusNotFound, "Not found")
		return
	}
	httpjson.ServerError(w, err)
}

package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardstudio/internal/account/model"
	"cardstudio/internal/account/repository"
	"cardstudio/internal/account/service"
	"cardstudio/pkg/httpjson"
	"cardstudio/pkg/logger"
)

type AuthHandler struct {
	Service *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Name, email, and password required")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name, email, and password required")
		return
	}

	tok, acc, err := h.Service.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		httpjson.ServerError(w, err)
		return
	}

	logger.Sugar.Infof("Account created: %s", acc.ID)
	httpjson.Write(w, http.StatusCreated, model.AuthResponse{Token: tok, User: acc.Summary()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Email and password required")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email and password required")
		return
	}

	tok, acc, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		httpjson.ServerError(w, err)
		return
	}

	httpjson.Write(w, http.StatusOK, model.AuthResponse{Token: tok, User: acc.Summary()})
}

// Package httpapi exposes the registry over a small JSON HTTP surface.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/logging"
	"github.com/dmitrijs2005/userkeeper/internal/server/users"
)

// Router wires HTTP endpoints to the registry service.
type Router struct {
	mux    *http.ServeMux
	logger logging.Logger
	users  *users.Service
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger logging.Logger, userSvc *users.Service) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger.With("module", "httpapi"),
		users:  userSvc,
	}
	r.register()
	return r
}

// ServeHTTP delegates to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.handleHealthz)
	r.mux.HandleFunc("/api/users", r.handleRegister)
	r.mux.HandleFunc("/api/users/phone", r.handleRegisterByPhone)
	r.mux.HandleFunc("/api/users/import", r.handleImport)
	r.mux.HandleFunc("/api/login", r.handleLogin)
	r.mux.HandleFunc("/api/access-code", r.handleAccessCode)
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := r.users.Register(req.Context(), payload.FullName, payload.Email, payload.Password)
	if err != nil {
		r.serviceError(w, req, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "login": user.Login})
}

func (r *Router) handleRegisterByPhone(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := r.users.RegisterByPhone(req.Context(), payload.FullName, payload.Phone)
	if err != nil {
		r.serviceError(w, req, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "login": user.Login})
}

func (r *Router) handleImport(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Records []string `json:"records"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	imported, err := r.users.ImportUsers(req.Context(), payload.Records)
	if err != nil {
		r.serviceError(w, req, err)
		return
	}

	logins := make([]string, len(imported))
	for i, u := range imported {
		logins[i] = u.Login
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": logins})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	info, err := r.users.Login(req.Context(), payload.Login, payload.Password)
	if err != nil {
		r.serviceError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"userInfo": info})
}

func (r *Router) handleAccessCode(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Silent semantics: the caller cannot tell whether the login exists.
	r.users.RequestAccessCode(req.Context(), payload.Login)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// serviceError maps registry errors onto HTTP statuses.
func (r *Router) serviceError(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		r.logger.Error(req.Context(), "request failed", "path", req.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

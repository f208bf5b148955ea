package http

import (
	"net/http"

	"printdesk-backend/internal/domain"
	"printdesk-backend/internal/service"
)

type AccountHandler struct {
	accountSvc service.AccountService
}

func NewAccountHandler(accountSvc service.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

type createAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.accountSvc.CreateAccount(r.Context(), actorFrom(r), service.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.UserRole(req.Role),
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.accountSvc.ListAccounts(r.Context(), actorFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

type setActiveRequest struct {
	Active bool   `json:"active"`
	Reason string `json:"reason"`
}

func (h *AccountHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req setActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.accountSvc.SetAccountActive(r.Context(), actorFrom(r), id, req.Active, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TerminateSessions invalidates every outstanding token for the target
// account without deactivating it.
func (h *AccountHandler) TerminateSessions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.accountSvc.TerminateSessions(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aaraalto/money-manager/internal/finance"
	"github.com/aaraalto/money-manager/internal/service"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps engine errors onto HTTP statuses. Validation problems are
// the caller's fault; a budget overrun is a well-formed request the domain
// refuses, reported with the exact shortfall.
func writeError(w http.ResponseWriter, err error) {
	var vErr *finance.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": vErr.Error(),
			"field": vErr.Field,
		})
		return
	}
	var bErr *finance.InsufficientBudgetError
	if errors.As(err, &bErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":     bErr.Error(),
			"shortfall": bErr.Shortfall.String(),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Dashboard returns the user's metrics, debt comparison, projection and
// insights in one payload.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// SimulatePayoff runs a what-if debt payoff against stored liabilities.
func (h *Handler) SimulatePayoff(w http.ResponseWriter, r *http.Request) {
	var req service.SimulatePayoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Strategy == "" {
		req.Strategy = finance.StrategyAvalanche
	}

	resp, err := h.svc.SimulatePayoff(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CommitScenario persists a spending plan change and returns the recomputed
// dashboard.
func (h *Handler) CommitScenario(w http.ResponseWriter, r *http.Request) {
	var change finance.PlanChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CommitScenario(r.Context(), change)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Affordability assesses a one-off purchase against current liquidity.
func (h *Handler) Affordability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cost decimal.Decimal `json:"cost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Cost.IsNegative() {
		writeError(w, &finance.ValidationError{Field: "cost", Reason: "must not be negative"})
		return
	}

	check, err := h.svc.AssessPurchase(r.Context(), req.Cost)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

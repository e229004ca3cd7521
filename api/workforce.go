package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/roi"
	"github.com/warp/attrition-engine/store"
	"github.com/warp/attrition-engine/workforce"
)

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.handleError(w, "Failed to list employees", err)
		return
	}

	result := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		result = append(result, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateEmployee creates or replaces an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := req.toEmployee()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		h.handleError(w, "Failed to save employee", err)
		return
	}

	saved, err := h.Store.GetEmployee(ctx, emp.ID)
	if err != nil {
		h.handleError(w, "Failed to read employee", err)
		return
	}
	if saved == nil {
		h.handleError(w, "Failed to read employee", &store.NotFoundError{Kind: "employee", ID: emp.ID})
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*saved))
}

// GetEmployee returns one employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.handleError(w, "Failed to get employee", err)
		return
	}
	if emp == nil {
		h.handleError(w, "Employee not found", &store.NotFoundError{Kind: "employee", ID: id})
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// DeleteEmployee removes an employee.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(ctx, id)
	if err != nil {
		h.handleError(w, "Failed to get employee", err)
		return
	}
	if emp == nil {
		h.handleError(w, "Employee not found", &store.NotFoundError{Kind: "employee", ID: id})
		return
	}
	if err := h.Store.DeleteEmployee(ctx, id); err != nil {
		h.handleError(w, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WorkforceSummary returns the executive overview of stored employees.
func (h *Handler) WorkforceSummary(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.handleError(w, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkforceSummaryDTO(workforce.Summarize(employees)))
}

func (req CreateEmployeeRequest) toEmployee() (store.Employee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return store.Employee{}, fmt.Errorf("name is required")
	}
	if req.MonthlyIncome < 0 {
		return store.Employee{}, fmt.Errorf("monthly_income must be >= 0, got %v", req.MonthlyIncome)
	}

	emp := store.Employee{
		ID:            req.ID,
		Name:          name,
		Department:    strings.TrimSpace(req.Department),
		MonthlyIncome: roi.Dec(req.MonthlyIncome),
		Attrited:      req.Attrited,
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if req.HireDate != "" {
		hired, err := time.Parse(dateLayout, req.HireDate)
		if err != nil {
			return store.Employee{}, fmt.Errorf("hire_date: %w", err)
		}
		emp.HireDate = hired
	}
	if req.RiskScore != nil {
		score := roi.Dec(*req.RiskScore)
		if !workforce.ValidRiskScore(score) {
			return store.Employee{}, fmt.Errorf("risk_score must be in [0, 1], got %v", *req.RiskScore)
		}
		emp.RiskScore = decimal.NewNullDecimal(score)
	}
	return emp, nil
}

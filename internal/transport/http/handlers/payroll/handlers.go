package payrollhandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"payrolltracker/internal/domain/payroll"
	"payrolltracker/internal/interchange"
	"payrolltracker/internal/middleware"
	"payrolltracker/internal/reports"
	"payrolltracker/internal/transport/http/api"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

type employeePayload struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Position  string `json:"position"`
}

type workTypePayload struct {
	Type         string  `json:"type"`
	Description  string  `json:"description"`
	HourlyRate   float64 `json:"hourlyRate"`
	StrategyKind string  `json:"strategyKind"`
	BonusPercent float64 `json:"bonusPercent"`
}

type assignWorkPayload struct {
	WorkTypeID int64   `json:"workTypeId"`
	Hours      float64 `json:"hours"`
}

type completedWorkRow struct {
	ID           int64   `json:"id"`
	Description  string  `json:"description"`
	Hours        float64 `json:"hours"`
	StrategyName string  `json:"strategyName"`
	Cost         float64 `json:"cost"`
}

type employeeWorksView struct {
	Employee    string             `json:"employee"`
	Works       []completedWorkRow `json:"works"`
	TotalSalary float64            `json:"totalSalary"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleAddEmployee)
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.Put("/{employeeID}", h.handleUpdateEmployee)
		r.Delete("/{employeeID}", h.handleDeleteEmployee)
		r.Get("/{employeeID}/works", h.handleEmployeeWorks)
		r.Post("/{employeeID}/works", h.handleAssignWork)
		r.Delete("/{employeeID}/works/{workID}", h.handleRemoveWork)
	})

	r.Route("/work-types", func(r chi.Router) {
		r.Get("/", h.handleListWorkTypes)
		r.Post("/", h.handleAddWorkType)
		r.Get("/{workTypeID}", h.handleGetWorkType)
		r.Put("/{workTypeID}", h.handleUpdateWorkType)
		r.Delete("/{workTypeID}", h.handleDeleteWorkType)
	})

	r.Get("/summary", h.handleSummary)
	r.Get("/summary/pdf", h.handleSummaryPDF)
	r.Get("/export", h.handleExport)
	r.Get("/export/work-types", h.handleExportWorkTypes)
	r.Post("/import", h.handleImport)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	employee, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	employee, err := h.Service.AddEmployee(r.Context(), payroll.Employee{
		LastName:  payload.LastName,
		FirstName: payload.FirstName,
		Position:  payload.Position,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	var payload employeePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	employee, err := h.Service.UpdateEmployee(r.Context(), payroll.Employee{
		ID:        id,
		LastName:  payload.LastName,
		FirstName: payload.FirstName,
		Position:  payload.Position,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	if err := h.Service.DeleteEmployee(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeeWorks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	employee, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view := employeeWorksView{
		Employee: employee.LastName + " " + employee.FirstName,
		Works:    []completedWorkRow{},
	}
	for _, cw := range employee.CompletedWorks {
		row := completedWorkRow{
			ID:    cw.ID,
			Hours: cw.Hours,
			Cost:  cw.Cost(),
		}
		if cw.WorkType != nil {
			row.Description = cw.WorkType.Description
			row.StrategyName = cw.WorkType.StrategyName()
		}
		view.Works = append(view.Works, row)
	}
	view.TotalSalary = employee.TotalSalary()
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAssignWork(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	var payload assignWorkPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	work, err := h.Service.AssignWork(r.Context(), id, payload.WorkTypeID, payload.Hours)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, work, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveWork(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	workID, ok := pathID(w, r, "workID")
	if !ok {
		return
	}
	if err := h.Service.RemoveCompletedWork(r.Context(), employeeID, workID); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListWorkTypes(w http.ResponseWriter, r *http.Request) {
	sortByRate := r.URL.Query().Get("sort") == "rate"
	workTypes, err := h.Service.ListWorkTypes(r.Context(), sortByRate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, workTypes, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetWorkType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workTypeID")
	if !ok {
		return
	}
	workType, err := h.Service.GetWorkType(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, workType, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddWorkType(w http.ResponseWriter, r *http.Request) {
	var payload workTypePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	workType, err := h.Service.AddWorkType(r.Context(), payroll.WorkType{
		Category:     payload.Type,
		Description:  payload.Description,
		HourlyRate:   payload.HourlyRate,
		StrategyKind: payload.StrategyKind,
		BonusPercent: payload.BonusPercent,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, workType, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateWorkType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workTypeID")
	if !ok {
		return
	}
	var payload workTypePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	workType, err := h.Service.UpdateWorkType(r.Context(), payroll.WorkType{
		ID:           id,
		Category:     payload.Type,
		Description:  payload.Description,
		HourlyRate:   payload.HourlyRate,
		StrategyKind: payload.StrategyKind,
		BonusPercent: payload.BonusPercent,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, workType, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteWorkType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "workTypeID")
	if !ok {
		return
	}
	if err := h.Service.DeleteWorkType(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := reports.PayrollSummaryPDF(employees, *summary)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll_summary.pdf"`)
	_, _ = w.Write(data)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.Export(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := interchange.Encode(employees)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll_backup.json"`)
	_, _ = w.Write(data)
}

func (h *Handler) handleExportWorkTypes(w http.ResponseWriter, r *http.Request) {
	workTypes, err := h.Service.ListWorkTypes(r.Context(), false)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := interchange.EncodeWorkTypes(workTypes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="works_backup.json"`)
	_, _ = w.Write(data)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "failed to read request body", middleware.GetRequestID(r.Context()))
		return
	}
	snapshot, err := interchange.Decode(body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_snapshot", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	report, err := h.Service.Import(r.Context(), snapshot)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var verr *payroll.ValidationError
	switch {
	case errors.As(err, &verr):
		api.Fail(w, http.StatusBadRequest, "validation_failed", verr.Error(), requestID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, payroll.ErrWorkTypeNotFound):
		api.Fail(w, http.StatusNotFound, "work_type_not_found", "work type not found", requestID)
	case errors.Is(err, payroll.ErrCompletedWorkNotFound):
		api.Fail(w, http.StatusNotFound, "completed_work_not_found", "completed work not found", requestID)
	case errors.Is(err, payroll.ErrEmptySnapshot):
		api.Fail(w, http.StatusBadRequest, "invalid_snapshot", "snapshot is empty", requestID)
	default:
		slog.Error("operation failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed: "+err.Error(), requestID)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "invalid "+name, middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_body", "malformed JSON body", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

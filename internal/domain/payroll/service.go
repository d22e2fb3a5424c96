package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) AddEmployee(ctx context.Context, e Employee) (*Employee, error) {
	if err := validateEmployee(e); err != nil {
		return nil, err
	}
	e.ID = 0
	e.CompletedWorks = nil
	id, err := s.store.CreateEmployee(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	e.ID = id
	return &e, nil
}

// UpdateEmployee replaces the stored record wholesale; edits never mutate
// a shared in-memory entity.
func (s *Service) UpdateEmployee(ctx context.Context, e Employee) (*Employee, error) {
	if err := validateEmployee(e); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEmployee(ctx, e); err != nil {
		return nil, err
	}
	return s.store.GetEmployee(ctx, e.ID)
}

// DeleteEmployee removes the employee; dependent completed works go with
// it via the store's cascade.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.store.DeleteEmployee(ctx, id)
}

func (s *Service) ListWorkTypes(ctx context.Context, sortByRate bool) ([]WorkType, error) {
	return s.store.ListWorkTypes(ctx, sortByRate)
}

func (s *Service) GetWorkType(ctx context.Context, id int64) (*WorkType, error) {
	return s.store.GetWorkType(ctx, id)
}

func (s *Service) AddWorkType(ctx context.Context, w WorkType) (*WorkType, error) {
	if err := validateWorkType(&w); err != nil {
		return nil, err
	}
	w.ID = 0
	id, err := s.store.CreateWorkType(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("create work type: %w", err)
	}
	w.ID = id
	return &w, nil
}

func (s *Service) UpdateWorkType(ctx context.Context, w WorkType) (*WorkType, error) {
	if err := validateWorkType(&w); err != nil {
		return nil, err
	}
	if err := s.store.UpdateWorkType(ctx, w); err != nil {
		return nil, err
	}
	return s.store.GetWorkType(ctx, w.ID)
}

func (s *Service) DeleteWorkType(ctx context.Context, id int64) error {
	return s.store.DeleteWorkType(ctx, id)
}

// AssignWork records that an employee spent hours on a catalog work type.
func (s *Service) AssignWork(ctx context.Context, employeeID, workTypeID int64, hours float64) (*CompletedWork, error) {
	if hours <= 0 {
		return nil, invalid("hours", "must be positive")
	}
	if _, err := s.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	workType, err := s.store.GetWorkType(ctx, workTypeID)
	if err != nil {
		return nil, err
	}
	id, err := s.store.CreateCompletedWork(ctx, employeeID, workTypeID, hours)
	if err != nil {
		return nil, fmt.Errorf("assign work: %w", err)
	}
	return &CompletedWork{
		ID:         id,
		EmployeeID: employeeID,
		WorkTypeID: workTypeID,
		Hours:      hours,
		WorkType:   workType,
	}, nil
}

func (s *Service) RemoveCompletedWork(ctx context.Context, employeeID, completedWorkID int64) error {
	return s.store.DeleteCompletedWork(ctx, employeeID, completedWorkID)
}

// Summary computes the aggregate totals shown on the main screen. Totals
// are always derived from completed works, never stored.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	workTypes, err := s.store.ListWorkTypes(ctx, false)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		EmployeeCount: len(employees),
		WorkTypeCount: len(workTypes),
	}
	for _, e := range employees {
		summary.TotalPayments += e.TotalSalary()
		summary.CompletedCount += len(e.CompletedWorks)
	}
	if len(workTypes) > 0 {
		var rates float64
		for _, w := range workTypes {
			rates += w.HourlyRate
		}
		summary.AverageRate = rates / float64(len(workTypes))
	}
	return summary, nil
}

// Export returns the employee snapshot that Import consumes. Only the
// forward direction of the graph is carried; back-pointers are rebuilt on
// import.
func (s *Service) Export(ctx context.Context) ([]Employee, error) {
	return s.store.ListEmployees(ctx)
}

// Import merges a snapshot into the store per the reconciliation rules in
// Reconcile. The staged batch is committed atomically; an empty snapshot
// aborts before any store access.
func (s *Service) Import(ctx context.Context, snapshot []Employee) (*ImportReport, error) {
	if len(snapshot) == 0 {
		return nil, ErrEmptySnapshot
	}

	existing, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	workTypes, err := s.store.ListWorkTypes(ctx, false)
	if err != nil {
		return nil, err
	}

	batch := Reconcile(snapshot, existing, workTypes)
	if err := s.store.ApplyBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("apply import batch: %w", err)
	}

	slog.Info("snapshot merged",
		"newEmployees", batch.Report.NewEmployees,
		"newWorkTypes", batch.Report.NewWorkTypes,
		"newCompletedWorks", batch.Report.NewCompletedWorks,
	)
	return &batch.Report, nil
}

func validateEmployee(e Employee) error {
	if strings.TrimSpace(e.LastName) == "" {
		return invalid("lastName", "required")
	}
	if strings.TrimSpace(e.FirstName) == "" {
		return invalid("firstName", "required")
	}
	return nil
}

func validateWorkType(w *WorkType) error {
	if strings.TrimSpace(w.Description) == "" {
		return invalid("description", "required")
	}
	if w.HourlyRate <= 0 {
		return invalid("hourlyRate", "must be positive")
	}
	if !ValidCategory(w.Category) {
		return invalid("type", "unknown category")
	}
	switch w.StrategyKind {
	case StrategyBonus:
		if w.BonusPercent < 0 {
			return invalid("bonusPercent", "must not be negative")
		}
	case StrategyHourly:
		w.BonusPercent = 0
	default:
		return invalid("strategyKind", "must be Hourly or Bonus")
	}
	return nil
}

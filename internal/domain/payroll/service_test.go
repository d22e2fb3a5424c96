package payroll

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// fakeStore mirrors the relational store in memory, including the cascade
// deletes the schema provides.
type fakeStore struct {
	nextID    int64
	employees map[int64]Employee
	workTypes map[int64]WorkType
	works     map[int64]CompletedWork
	batchErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees: make(map[int64]Employee),
		workTypes: make(map[int64]WorkType),
		works:     make(map[int64]CompletedWork),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListEmployees(_ context.Context) ([]Employee, error) {
	var out []Employee
	for _, e := range f.employees {
		e.CompletedWorks = f.worksFor(e.ID)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) worksFor(employeeID int64) []CompletedWork {
	var out []CompletedWork
	for _, cw := range f.works {
		if cw.EmployeeID != employeeID {
			continue
		}
		if wt, ok := f.workTypes[cw.WorkTypeID]; ok {
			copied := wt
			cw.WorkType = &copied
		}
		out = append(out, cw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) GetEmployee(_ context.Context, id int64) (*Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	e.CompletedWorks = f.worksFor(id)
	return &e, nil
}

func (f *fakeStore) CreateEmployee(_ context.Context, e Employee) (int64, error) {
	e.ID = f.id()
	f.employees[e.ID] = e
	return e.ID, nil
}

func (f *fakeStore) UpdateEmployee(_ context.Context, e Employee) error {
	if _, ok := f.employees[e.ID]; !ok {
		return ErrEmployeeNotFound
	}
	f.employees[e.ID] = e
	return nil
}

func (f *fakeStore) DeleteEmployee(_ context.Context, id int64) error {
	if _, ok := f.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(f.employees, id)
	for workID, cw := range f.works {
		if cw.EmployeeID == id {
			delete(f.works, workID)
		}
	}
	return nil
}

func (f *fakeStore) ListWorkTypes(_ context.Context, sortByRate bool) ([]WorkType, error) {
	var out []WorkType
	for _, w := range f.workTypes {
		out = append(out, w)
	}
	if sortByRate {
		sort.Slice(out, func(i, j int) bool { return out[i].HourlyRate < out[j].HourlyRate })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out, nil
}

func (f *fakeStore) GetWorkType(_ context.Context, id int64) (*WorkType, error) {
	w, ok := f.workTypes[id]
	if !ok {
		return nil, ErrWorkTypeNotFound
	}
	return &w, nil
}

func (f *fakeStore) CreateWorkType(_ context.Context, w WorkType) (int64, error) {
	w.ID = f.id()
	f.workTypes[w.ID] = w
	return w.ID, nil
}

func (f *fakeStore) UpdateWorkType(_ context.Context, w WorkType) error {
	if _, ok := f.workTypes[w.ID]; !ok {
		return ErrWorkTypeNotFound
	}
	f.workTypes[w.ID] = w
	return nil
}

func (f *fakeStore) DeleteWorkType(_ context.Context, id int64) error {
	if _, ok := f.workTypes[id]; !ok {
		return ErrWorkTypeNotFound
	}
	delete(f.workTypes, id)
	for workID, cw := range f.works {
		if cw.WorkTypeID == id {
			delete(f.works, workID)
		}
	}
	return nil
}

func (f *fakeStore) CreateCompletedWork(_ context.Context, employeeID, workTypeID int64, hours float64) (int64, error) {
	id := f.id()
	f.works[id] = CompletedWork{ID: id, EmployeeID: employeeID, WorkTypeID: workTypeID, Hours: hours}
	return id, nil
}

func (f *fakeStore) DeleteCompletedWork(_ context.Context, employeeID, completedWorkID int64) error {
	cw, ok := f.works[completedWorkID]
	if !ok || cw.EmployeeID != employeeID {
		return ErrCompletedWorkNotFound
	}
	delete(f.works, completedWorkID)
	return nil
}

func (f *fakeStore) ApplyBatch(_ context.Context, batch *Batch) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, e := range batch.NewEmployees {
		e.ID = f.id()
		f.employees[e.ID] = Employee{ID: e.ID, LastName: e.LastName, FirstName: e.FirstName, Position: e.Position}
	}
	for _, w := range batch.NewWorkTypes {
		w.ID = f.id()
		f.workTypes[w.ID] = *w
	}
	for _, sw := range batch.StagedWorks {
		id := f.id()
		f.works[id] = CompletedWork{ID: id, EmployeeID: sw.Employee.ID, WorkTypeID: sw.WorkType.ID, Hours: sw.Hours}
	}
	return nil
}

func seedReportWriting(t *testing.T, store *fakeStore) int64 {
	t.Helper()
	id, err := store.CreateWorkType(context.Background(), WorkType{
		Category:     CategoryOffice,
		Description:  "Report writing",
		HourlyRate:   500,
		StrategyKind: StrategyHourly,
	})
	if err != nil {
		t.Fatalf("seed work type: %v", err)
	}
	return id
}

func TestImportMergesSnapshot(t *testing.T) {
	store := newFakeStore()
	seedReportWriting(t, store)
	svc := NewService(store)
	ctx := context.Background()

	report, err := svc.Import(ctx, snapshotIvanov(8))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if report.NewEmployees != 1 || report.NewWorkTypes != 0 || report.NewCompletedWorks != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	employees, err := svc.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("list employees: %v", err)
	}
	if len(employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(employees))
	}
	if total := employees[0].TotalSalary(); total != 4000 {
		t.Fatalf("expected total salary 4000, got %v", total)
	}
}

func TestImportTwiceIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seedReportWriting(t, store)
	svc := NewService(store)
	ctx := context.Background()

	if _, err := svc.Import(ctx, snapshotIvanov(8)); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	report, err := svc.Import(ctx, snapshotIvanov(8))
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if report.NewEmployees != 0 || report.NewWorkTypes != 0 || report.NewCompletedWorks != 0 {
		t.Fatalf("expected all-zero report on re-import, got %+v", report)
	}

	if len(store.employees) != 1 || len(store.workTypes) != 1 || len(store.works) != 1 {
		t.Fatalf("expected counts unchanged, got %d/%d/%d",
			len(store.employees), len(store.workTypes), len(store.works))
	}

	employees, err := svc.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("list employees: %v", err)
	}
	if total := employees[0].TotalSalary(); total != 4000 {
		t.Fatalf("expected total salary still 4000 after re-import, got %v", total)
	}
}

func TestImportEmptySnapshot(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.Import(context.Background(), nil); !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
}

func TestImportBatchFailureLeavesStoreUntouched(t *testing.T) {
	store := newFakeStore()
	store.batchErr = errors.New("commit refused")
	svc := NewService(store)

	_, err := svc.Import(context.Background(), snapshotIvanov(8))
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if len(store.employees) != 0 || len(store.workTypes) != 0 || len(store.works) != 0 {
		t.Fatalf("expected no partial merge, got %d/%d/%d",
			len(store.employees), len(store.workTypes), len(store.works))
	}
}

func TestDeleteEmployeeCascades(t *testing.T) {
	store := newFakeStore()
	workTypeID := seedReportWriting(t, store)
	svc := NewService(store)
	ctx := context.Background()

	emp, err := svc.AddEmployee(ctx, Employee{LastName: "Ivanov", FirstName: "Ivan", Position: "Manager"})
	if err != nil {
		t.Fatalf("add employee: %v", err)
	}
	if _, err := svc.AssignWork(ctx, emp.ID, workTypeID, 8); err != nil {
		t.Fatalf("assign work: %v", err)
	}

	if err := svc.DeleteEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	if len(store.works) != 0 {
		t.Fatalf("expected completed works removed with employee, got %d", len(store.works))
	}
}

func TestDeleteWorkTypeCascades(t *testing.T) {
	store := newFakeStore()
	workTypeID := seedReportWriting(t, store)
	svc := NewService(store)
	ctx := context.Background()

	emp, err := svc.AddEmployee(ctx, Employee{LastName: "Ivanov", FirstName: "Ivan"})
	if err != nil {
		t.Fatalf("add employee: %v", err)
	}
	if _, err := svc.AssignWork(ctx, emp.ID, workTypeID, 8); err != nil {
		t.Fatalf("assign work: %v", err)
	}

	if err := svc.DeleteWorkType(ctx, workTypeID); err != nil {
		t.Fatalf("delete work type: %v", err)
	}
	if len(store.works) != 0 {
		t.Fatalf("expected completed works removed with work type, got %d", len(store.works))
	}
}

func TestAssignWorkValidation(t *testing.T) {
	store := newFakeStore()
	workTypeID := seedReportWriting(t, store)
	svc := NewService(store)
	ctx := context.Background()

	emp, err := svc.AddEmployee(ctx, Employee{LastName: "Ivanov", FirstName: "Ivan"})
	if err != nil {
		t.Fatalf("add employee: %v", err)
	}

	var verr *ValidationError
	if _, err := svc.AssignWork(ctx, emp.ID, workTypeID, 0); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for zero hours, got %v", err)
	}
	if _, err := svc.AssignWork(ctx, 999, workTypeID, 8); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if _, err := svc.AssignWork(ctx, emp.ID, 999, 8); !errors.Is(err, ErrWorkTypeNotFound) {
		t.Fatalf("expected ErrWorkTypeNotFound, got %v", err)
	}
}

func TestAddWorkTypeValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	cases := []WorkType{
		{Category: CategoryOffice, Description: "", HourlyRate: 500, StrategyKind: StrategyHourly},
		{Category: CategoryOffice, Description: "Review", HourlyRate: 0, StrategyKind: StrategyHourly},
		{Category: "Unknown", Description: "Review", HourlyRate: 500, StrategyKind: StrategyHourly},
		{Category: CategoryOffice, Description: "Review", HourlyRate: 500, StrategyKind: "Fixed"},
		{Category: CategoryOffice, Description: "Review", HourlyRate: 500, StrategyKind: StrategyBonus, BonusPercent: -5},
	}
	for _, w := range cases {
		var verr *ValidationError
		if _, err := svc.AddWorkType(ctx, w); !errors.As(err, &verr) {
			t.Fatalf("expected validation error for %+v, got %v", w, err)
		}
	}
}

func TestAddEmployeeValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	var verr *ValidationError
	if _, err := svc.AddEmployee(ctx, Employee{FirstName: "Ivan"}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for missing last name, got %v", err)
	}
	if _, err := svc.AddEmployee(ctx, Employee{LastName: "  ", FirstName: "Ivan"}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for blank last name, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	store := newFakeStore()
	reportID := seedReportWriting(t, store)
	svc := NewService(store)
	ctx := context.Background()

	serverID, err := store.CreateWorkType(ctx, WorkType{
		Category: CategoryTechnical, Description: "Server setup",
		HourlyRate: 1200, StrategyKind: StrategyBonus, BonusPercent: 5,
	})
	if err != nil {
		t.Fatalf("seed work type: %v", err)
	}

	emp, err := svc.AddEmployee(ctx, Employee{LastName: "Ivanov", FirstName: "Ivan"})
	if err != nil {
		t.Fatalf("add employee: %v", err)
	}
	if _, err := svc.AssignWork(ctx, emp.ID, reportID, 8); err != nil {
		t.Fatalf("assign work: %v", err)
	}
	if _, err := svc.AssignWork(ctx, emp.ID, serverID, 2); err != nil {
		t.Fatalf("assign work: %v", err)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !approxEqual(summary.TotalPayments, 6520) {
		t.Fatalf("expected total payments 6520, got %v", summary.TotalPayments)
	}
	if summary.AverageRate != 850 {
		t.Fatalf("expected average rate 850, got %v", summary.AverageRate)
	}
	if summary.EmployeeCount != 1 || summary.WorkTypeCount != 2 || summary.CompletedCount != 2 {
		t.Fatalf("unexpected counts %+v", summary)
	}
}

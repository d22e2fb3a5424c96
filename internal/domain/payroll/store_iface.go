package payroll

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (int64, error)
	UpdateEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id int64) error

	ListWorkTypes(ctx context.Context, sortByRate bool) ([]WorkType, error)
	GetWorkType(ctx context.Context, id int64) (*WorkType, error)
	CreateWorkType(ctx context.Context, w WorkType) (int64, error)
	UpdateWorkType(ctx context.Context, w WorkType) error
	DeleteWorkType(ctx context.Context, id int64) error

	CreateCompletedWork(ctx context.Context, employeeID, workTypeID int64, hours float64) (int64, error)
	DeleteCompletedWork(ctx context.Context, employeeID, completedWorkID int64) error

	ApplyBatch(ctx context.Context, batch *Batch) error
}

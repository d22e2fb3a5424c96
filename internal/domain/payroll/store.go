package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, last_name, first_name, COALESCE(position, '')
    FROM employees
    ORDER BY id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	index := make(map[int64]int)
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.LastName, &e.FirstName, &e.Position); err != nil {
			return nil, err
		}
		index[e.ID] = len(employees)
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	works, err := s.listCompletedWorks(ctx, 0)
	if err != nil {
		return nil, err
	}
	for _, cw := range works {
		if i, ok := index[cw.EmployeeID]; ok {
			employees[i].CompletedWorks = append(employees[i].CompletedWorks, cw)
		}
	}
	return employees, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, last_name, first_name, COALESCE(position, '')
    FROM employees
    WHERE id = $1
  `, id)

	var e Employee
	if err := row.Scan(&e.ID, &e.LastName, &e.FirstName, &e.Position); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	works, err := s.listCompletedWorks(ctx, id)
	if err != nil {
		return nil, err
	}
	e.CompletedWorks = works
	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (last_name, first_name, position)
    VALUES ($1, $2, $3)
    RETURNING id
  `, e.LastName, e.FirstName, e.Position).Scan(&id)
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET last_name = $2, first_name = $3, position = $4
    WHERE id = $1
  `, e.ID, e.LastName, e.FirstName, e.Position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) ListWorkTypes(ctx context.Context, sortByRate bool) ([]WorkType, error) {
	order := "id"
	if sortByRate {
		order = "hourly_rate, id"
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, type_tag, description, hourly_rate, strategy_kind, COALESCE(bonus_percent, 0)
    FROM work_types
    ORDER BY `+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workTypes []WorkType
	for rows.Next() {
		var w WorkType
		if err := rows.Scan(&w.ID, &w.Category, &w.Description, &w.HourlyRate, &w.StrategyKind, &w.BonusPercent); err != nil {
			return nil, err
		}
		workTypes = append(workTypes, w)
	}
	return workTypes, rows.Err()
}

func (s *Store) GetWorkType(ctx context.Context, id int64) (*WorkType, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, type_tag, description, hourly_rate, strategy_kind, COALESCE(bonus_percent, 0)
    FROM work_types
    WHERE id = $1
  `, id)

	var w WorkType
	if err := row.Scan(&w.ID, &w.Category, &w.Description, &w.HourlyRate, &w.StrategyKind, &w.BonusPercent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkTypeNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (s *Store) CreateWorkType(ctx context.Context, w WorkType) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO work_types (type_tag, description, hourly_rate, strategy_kind, bonus_percent)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, w.Category, w.Description, w.HourlyRate, w.StrategyKind, w.BonusPercent).Scan(&id)
	return id, err
}

func (s *Store) UpdateWorkType(ctx context.Context, w WorkType) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_types
    SET type_tag = $2, description = $3, hourly_rate = $4, strategy_kind = $5, bonus_percent = $6
    WHERE id = $1
  `, w.ID, w.Category, w.Description, w.HourlyRate, w.StrategyKind, w.BonusPercent)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkTypeNotFound
	}
	return nil
}

func (s *Store) DeleteWorkType(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM work_types WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkTypeNotFound
	}
	return nil
}

func (s *Store) CreateCompletedWork(ctx context.Context, employeeID, workTypeID int64, hours float64) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO completed_works (employee_id, work_type_id, hours)
    VALUES ($1, $2, $3)
    RETURNING id
  `, employeeID, workTypeID, hours).Scan(&id)
	return id, err
}

func (s *Store) DeleteCompletedWork(ctx context.Context, employeeID, completedWorkID int64) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM completed_works
    WHERE id = $1 AND employee_id = $2
  `, completedWorkID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCompletedWorkNotFound
	}
	return nil
}

// ApplyBatch persists a staged reconciliation in one transaction. New
// employees and work types are inserted first so that staged works can
// reference their assigned ids; any failure rolls the whole batch back.
func (s *Store) ApplyBatch(ctx context.Context, batch *Batch) error {
	if batch.Empty() {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, e := range batch.NewEmployees {
		err := tx.QueryRow(ctx, `
      INSERT INTO employees (last_name, first_name, position)
      VALUES ($1, $2, $3)
      RETURNING id
    `, e.LastName, e.FirstName, e.Position).Scan(&e.ID)
		if err != nil {
			return err
		}
	}

	for _, w := range batch.NewWorkTypes {
		err := tx.QueryRow(ctx, `
      INSERT INTO work_types (type_tag, description, hourly_rate, strategy_kind, bonus_percent)
      VALUES ($1, $2, $3, $4, $5)
      RETURNING id
    `, w.Category, w.Description, w.HourlyRate, w.StrategyKind, w.BonusPercent).Scan(&w.ID)
		if err != nil {
			return err
		}
	}

	for _, sw := range batch.StagedWorks {
		_, err := tx.Exec(ctx, `
      INSERT INTO completed_works (employee_id, work_type_id, hours)
      VALUES ($1, $2, $3)
    `, sw.Employee.ID, sw.WorkType.ID, sw.Hours)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// listCompletedWorks returns rows with their work types resolved;
// employeeID 0 means all employees.
func (s *Store) listCompletedWorks(ctx context.Context, employeeID int64) ([]CompletedWork, error) {
	query := `
    SELECT cw.id, cw.employee_id, cw.work_type_id, cw.hours,
           w.id, w.type_tag, w.description, w.hourly_rate, w.strategy_kind, COALESCE(w.bonus_percent, 0)
    FROM completed_works cw
    JOIN work_types w ON cw.work_type_id = w.id
  `
	var rows pgx.Rows
	var err error
	if employeeID != 0 {
		rows, err = s.DB.Query(ctx, query+" WHERE cw.employee_id = $1 ORDER BY cw.id", employeeID)
	} else {
		rows, err = s.DB.Query(ctx, query+" ORDER BY cw.id")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var works []CompletedWork
	for rows.Next() {
		var cw CompletedWork
		var w WorkType
		if err := rows.Scan(
			&cw.ID, &cw.EmployeeID, &cw.WorkTypeID, &cw.Hours,
			&w.ID, &w.Category, &w.Description, &w.HourlyRate, &w.StrategyKind, &w.BonusPercent,
		); err != nil {
			return nil, err
		}
		cw.WorkType = &w
		works = append(works, cw)
	}
	return works, rows.Err()
}

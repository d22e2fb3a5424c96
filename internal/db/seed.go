package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed fills an empty database with the starter catalog and one employee
// so a fresh install has something to show. Tables that already hold rows
// are left alone.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	var workTypeCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM work_types").Scan(&workTypeCount); err != nil {
		return err
	}

	var firstWorkID int64
	if workTypeCount == 0 {
		err := pool.QueryRow(ctx, `
      INSERT INTO work_types (type_tag, description, hourly_rate, strategy_kind, bonus_percent)
      VALUES ('Office', 'Report writing', 500, 'Hourly', 0)
      RETURNING id
    `).Scan(&firstWorkID)
		if err != nil {
			return err
		}
		_, err = pool.Exec(ctx, `
      INSERT INTO work_types (type_tag, description, hourly_rate, strategy_kind, bonus_percent)
      VALUES ('Technical', 'Server setup', 1200, 'Bonus', 5)
    `)
		if err != nil {
			return err
		}
	} else {
		if err := pool.QueryRow(ctx, "SELECT id FROM work_types ORDER BY id LIMIT 1").Scan(&firstWorkID); err != nil {
			return err
		}
	}

	var employeeCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&employeeCount); err != nil {
		return err
	}
	if employeeCount > 0 {
		return nil
	}

	var employeeID int64
	err := pool.QueryRow(ctx, `
    INSERT INTO employees (last_name, first_name, position)
    VALUES ('Ivanov', 'Ivan', 'Manager')
    RETURNING id
  `).Scan(&employeeID)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO completed_works (employee_id, work_type_id, hours)
    VALUES ($1, $2, 8)
  `, employeeID, firstWorkID)
	return err
}

package employees

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	const q = `SELECT id, name, position, salary FROM employees ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Employee{}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Position, &e.Salary); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Employee, error) {
	const q = `SELECT id, name, position, salary FROM employees WHERE id = $1`
	e := &Employee{}
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Name, &e.Position, &e.Salary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, e *Employee) error {
	const q = `
		INSERT INTO employees (name, position, salary)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return s.db.QueryRowContext(ctx, q, e.Name, e.Position, e.Salary).Scan(&e.ID)
}

func (s *Store) Update(ctx context.Context, id int64, e *Employee) (*Employee, error) {
	const q = `
		UPDATE employees SET name = $2, position = $3, salary = $4
		WHERE id = $1
		RETURNING id, name, position, salary
	`
	updated := &Employee{}
	if err := s.db.QueryRowContext(ctx, q, id, e.Name, e.Position, e.Salary).
		Scan(&updated.ID, &updated.Name, &updated.Position, &updated.Salary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM employees WHERE id = $1`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

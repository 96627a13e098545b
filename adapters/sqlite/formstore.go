package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artpar/formdesk/domain/form"
	"github.com/artpar/formdesk/ports"
)

// FormStore implements ports.FormStore with SQLite.
type FormStore struct {
	db *DB
}

// NewFormStore creates a new SQLite form store.
func NewFormStore(db *DB) *FormStore {
	return &FormStore{db: db}
}

const formColumns = `id, title, applicant, email, COALESCE(phone, ''), category,
	priority, COALESCE(details, ''), status, created_at, updated_at`

// Create stores a new form.
func (s *FormStore) Create(ctx context.Context, f form.Form) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO forms (id, title, applicant, email, phone, category,
						   priority, details, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Title, f.Applicant, f.Email, f.Phone, string(f.Category),
		f.Priority, f.Details, string(f.Status), f.CreatedAt, f.UpdatedAt)
	return err
}

// Get retrieves a form by ID.
func (s *FormStore) Get(ctx context.Context, id string) (form.Form, error) {
	row := s.db.DB.QueryRowContext(ctx,
		`SELECT `+formColumns+` FROM forms WHERE id = ?`, id)
	f, err := scanForm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return form.Form{}, ports.ErrNotFound
	}
	return f, err
}

// List returns forms matching the filter, newest first.
func (s *FormStore) List(ctx context.Context, filter ports.FormFilter) ([]form.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms`
	args := []any{}
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []form.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// Count returns the number of forms with the given status (all when empty).
func (s *FormStore) Count(ctx context.Context, status form.Status) (int64, error) {
	query := `SELECT COUNT(*) FROM forms`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}

	var n int64
	err := s.db.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// Update overwrites an existing form.
func (s *FormStore) Update(ctx context.Context, f form.Form) error {
	res, err := s.db.DB.ExecContext(ctx, `
		UPDATE forms SET title = ?, applicant = ?, email = ?, phone = ?,
						 category = ?, priority = ?, details = ?, status = ?,
						 updated_at = ?
		WHERE id = ?
	`, f.Title, f.Applicant, f.Email, f.Phone, string(f.Category),
		f.Priority, f.Details, string(f.Status), f.UpdatedAt, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Delete removes a form.
func (s *FormStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.DB.ExecContext(ctx, "DELETE FROM forms WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (form.Form, error) {
	var f form.Form
	var category, status string
	err := row.Scan(
		&f.ID, &f.Title, &f.Applicant, &f.Email, &f.Phone, &category,
		&f.Priority, &f.Details, &status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return form.Form{}, err
	}
	f.Category = form.Category(category)
	f.Status = form.Status(status)
	return f, nil
}

var _ ports.FormStore = (*FormStore)(nil)

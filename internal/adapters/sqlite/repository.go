package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

//go:embed schema.sql
var schema string

type Repository struct {
	db *sql.DB
}

// New opens the SQLite database. Schema migrations are managed by dbmate;
// run `dbmate up` before starting the store, or call EnsureSchema.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// EnsureSchema creates any missing tables. It matches the dbmate migrations
// and is safe to run against a migrated database.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return errors.Wrap(err, "apply schema")
}

func (r *Repository) Close() error { return r.db.Close() }

// ── Students ─────────────────────────────────────────────────────────────────

func (r *Repository) CreateStudent(ctx context.Context, s *domain.Student) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, name, number, created_at) VALUES (?,?,?,?)`,
		s.ID, s.Name, s.Number, time.Now().UTC(),
	)
	return errors.Wrapf(err, "create student %s", s.Number)
}

func (r *Repository) GetStudent(ctx context.Context, id string) (*domain.Student, error) {
	s := &domain.Student{}
	err := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.name, s.number, COUNT(sub.id)
		FROM students s LEFT JOIN submissions sub ON sub.student_id = s.id
		WHERE s.id=?
		GROUP BY s.id`, id).Scan(&s.ID, &s.Name, &s.Number, &s.SubmissionCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get student %s", id)
	}
	return s, nil
}

// ListStudents returns every student in registration order, without counts.
func (r *Repository) ListStudents(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, number FROM students ORDER BY created_at, rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "list students")
	}
	defer rows.Close()
	list := []domain.Student{}
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Number); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListStudentsWithCounts is ListStudents plus each student's submission count.
func (r *Repository) ListStudentsWithCounts(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.number, COUNT(sub.id)
		FROM students s LEFT JOIN submissions sub ON sub.student_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at, s.rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "list students with counts")
	}
	defer rows.Close()
	list := []domain.Student{}
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Number, &s.SubmissionCount); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ── Submissions ──────────────────────────────────────────────────────────────

// AddSubmission stores sub for sub.StudentID, filling in its id and upload
// time. It returns domain.ErrNotFound when the student does not exist.
func (r *Repository) AddSubmission(ctx context.Context, sub *domain.Submission) error {
	if _, err := r.GetStudent(ctx, sub.StudentID); err != nil {
		return err
	}
	sub.ID = uuid.NewString()
	if sub.UploadedAt.IsZero() {
		sub.UploadedAt = time.Now()
	}
	sub.UploadedAt = sub.UploadedAt.UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (id, student_id, task_name, link, uploaded_at)
		VALUES (?,?,?,?,?)`,
		sub.ID, sub.StudentID, sub.TaskName, sub.Link, sub.UploadedAt,
	)
	return errors.Wrap(err, "add submission")
}

// ListSubmissions returns a student's submissions, newest first.
func (r *Repository) ListSubmissions(ctx context.Context, studentID string) ([]domain.Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, task_name, link, uploaded_at
		FROM submissions WHERE student_id=?
		ORDER BY uploaded_at DESC, rowid DESC`, studentID)
	if err != nil {
		return nil, errors.Wrapf(err, "list submissions of %s", studentID)
	}
	defer rows.Close()
	list := []domain.Submission{}
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.StudentID, &s.TaskName, &s.Link, &s.UploadedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteSubmission removes one submission. A submission that does not exist
// or belongs to another student is domain.ErrNotFound.
func (r *Repository) DeleteSubmission(ctx context.Context, studentID, submissionID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE id=? AND student_id=?`, submissionID, studentID)
	if err != nil {
		return errors.Wrap(err, "delete submission")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package ports

import (
	"context"
	"io"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

// RemoteStore is the client's only view of the backing store.
// Implementations return an error for transport failures and unexpected
// statuses on reads; Upload and Delete report a rejected action through
// ActionResult and only return an error when the call itself failed.
type RemoteStore interface {
	ListStudentsWithCounts(ctx context.Context) ([]domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	History(ctx context.Context, studentID string) ([]domain.Submission, error)
	Upload(ctx context.Context, studentID string, req domain.UploadRequest) (domain.ActionResult, error)
	Delete(ctx context.Context, studentID, submissionID string, req domain.DeleteRequest) (domain.ActionResult, error)
}

// StudentRepository defines persistence operations of the reference store.
type StudentRepository interface {
	CreateStudent(ctx context.Context, s *domain.Student) error
	GetStudent(ctx context.Context, id string) (*domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	ListStudentsWithCounts(ctx context.Context) ([]domain.Student, error)

	AddSubmission(ctx context.Context, sub *domain.Submission) error
	ListSubmissions(ctx context.Context, studentID string) ([]domain.Submission, error)
	DeleteSubmission(ctx context.Context, studentID, submissionID string) error
}

// RosterReporter defines the roster export port.
type RosterReporter interface {
	// Report writes a printable roster with submission counts.
	Report(ctx context.Context, students []domain.Student, w io.Writer) error
}

package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

// fakeStore is an in-memory RemoteStore that records every call.
type fakeStore struct {
	mu       sync.Mutex
	password string
	students []domain.Student
	subs     map[string][]domain.Submission
	calls    []string
	nextID   int

	failList    error
	failHistory error
	failAction  error
	reply       *domain.ActionResult // overrides the computed answer to actions

	beforeHistory func(studentID string)
}

func newFakeStore(password string, students ...domain.Student) *fakeStore {
	return &fakeStore{password: password, students: students, subs: map[string][]domain.Submission{}}
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func (f *fakeStore) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) withCounts() []domain.Student {
	out := make([]domain.Student, 0, len(f.students))
	for _, s := range f.students {
		s.SubmissionCount = len(f.subs[s.ID])
		out = append(out, s)
	}
	return out
}

func (f *fakeStore) ListStudentsWithCounts(ctx context.Context) ([]domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("students/with-counts")
	if f.failList != nil {
		return nil, f.failList
	}
	return f.withCounts(), nil
}

func (f *fakeStore) ListStudents(ctx context.Context) ([]domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("students")
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]domain.Student(nil), f.students...), nil
}

func (f *fakeStore) History(ctx context.Context, studentID string) ([]domain.Submission, error) {
	if f.beforeHistory != nil {
		f.beforeHistory(studentID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("history " + studentID)
	if f.failHistory != nil {
		return nil, f.failHistory
	}
	return append([]domain.Submission(nil), f.subs[studentID]...), nil
}

func (f *fakeStore) Upload(ctx context.Context, studentID string, req domain.UploadRequest) (domain.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("upload " + studentID)
	if f.failAction != nil {
		return domain.ActionResult{}, f.failAction
	}
	if f.reply != nil {
		return *f.reply, nil
	}
	if req.Password != f.password {
		return domain.ActionResult{Status: domain.StatusError, Message: "Sandi salah", OK: false}, nil
	}
	f.nextID++
	f.subs[studentID] = append(f.subs[studentID], domain.Submission{
		ID:         fmt.Sprintf("sub-%d", f.nextID),
		StudentID:  studentID,
		TaskName:   req.TaskName,
		Link:       req.Link,
		UploadedAt: time.Date(2026, 1, f.nextID, 9, 0, 0, 0, time.UTC),
	})
	return domain.ActionResult{Status: domain.StatusSuccess, OK: true}, nil
}

func (f *fakeStore) Delete(ctx context.Context, studentID, submissionID string, req domain.DeleteRequest) (domain.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete " + studentID + "/" + submissionID)
	if f.failAction != nil {
		return domain.ActionResult{}, f.failAction
	}
	if f.reply != nil {
		return *f.reply, nil
	}
	if req.Password != f.password {
		return domain.ActionResult{Status: domain.StatusError, Message: "Sandi salah"}, nil
	}
	list := f.subs[studentID]
	for i, s := range list {
		if s.ID == submissionID {
			f.subs[studentID] = append(list[:i:i], list[i+1:]...)
			return domain.ActionResult{Status: domain.StatusSuccess, Message: "Tugas berhasil dihapus", OK: true}, nil
		}
	}
	return domain.ActionResult{Status: domain.StatusError, Message: "Tugas tidak ditemukan"}, nil
}

var errNetwork = errors.New("connection refused")

func always(answer bool) ConfirmFunc {
	return func(context.Context, string) (bool, error) { return answer, nil }
}

// countingConfirmer records how often it was asked.
type countingConfirmer struct {
	answer bool
	asked  int
}

func (c *countingConfirmer) Confirm(context.Context, string) (bool, error) {
	c.asked++
	return c.answer, nil
}

package tracker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
)

// DetailPageView is what the standalone detail page renders.
type DetailPageView struct {
	StudentID string
	Label     string
	Found     bool
	Password  string
	Message   domain.Message
	History   HistoryView
}

// DetailPage shows one student's history without a roster cache.
type DetailPage struct {
	*Dispatcher

	store ports.RemoteStore
	log   *slog.Logger
	mut   *Mutator

	mu   sync.Mutex
	view DetailPageView
}

func NewDetailPage(store ports.RemoteStore, log *slog.Logger) *DetailPage {
	d := &DetailPage{
		Dispatcher: newDispatcher(),
		store:      store,
		log:        log,
		mut:        NewMutator(store, log),
	}
	d.handle(ActionDelete, func(ctx context.Context, ev Event) error {
		d.Delete(ctx, ev.Action, ev.Form.Password, ev.Confirm)
		return nil
	})
	return d
}

// Load resolves studentID against the plain student list and, on a match,
// loads that student's history.
func (d *DetailPage) Load(ctx context.Context, studentID string) {
	if studentID == "" {
		d.set(DetailPageView{Label: textNoStudentID})
		return
	}

	students, err := d.store.ListStudents(ctx)
	if err != nil {
		d.log.Error("detail page: student list failed", "student", studentID, "err", err)
		d.set(DetailPageView{StudentID: studentID, Label: textDetailFailed})
		return
	}
	student, ok := findStudent(students, studentID)
	if !ok {
		d.set(DetailPageView{StudentID: studentID, Label: textStudentNotFound})
		return
	}

	d.set(DetailPageView{StudentID: studentID, Label: student.Label(), Found: true})
	history := loadHistory(ctx, d.store, d.log, studentID)
	d.mu.Lock()
	d.view.History = history
	d.mu.Unlock()
}

// Delete removes a submission using the page-level password. Only the
// history is reloaded afterwards.
func (d *DetailPage) Delete(ctx context.Context, target Action, password string, confirm Confirmer) bool {
	d.mu.Lock()
	d.view.Password = password
	d.mu.Unlock()

	return d.mut.Delete(ctx, DeleteInput{
		StudentID:    target.StudentID,
		SubmissionID: target.SubmissionID,
		Password:     password,
	}, confirm, d.showMessage, func(ctx context.Context) {
		history := loadHistory(ctx, d.store, d.log, target.StudentID)
		d.mu.Lock()
		d.view.History = history
		d.mu.Unlock()
	})
}

func (d *DetailPage) View() DetailPageView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

func (d *DetailPage) set(v DetailPageView) {
	d.mu.Lock()
	d.view = v
	d.mu.Unlock()
}

func (d *DetailPage) showMessage(m domain.Message) {
	d.mu.Lock()
	d.view.Message = m
	d.mu.Unlock()
}

func findStudent(students []domain.Student, id string) (domain.Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Student{}, false
}

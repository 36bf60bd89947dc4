package tracker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
)

// PanelView is the upload panel as it should be drawn.
type PanelView struct {
	Open    bool
	Student domain.Student
	Form    Form
	Message domain.Message
	History HistoryView
}

// RosterPageView is everything the roster page renders.
type RosterPageView struct {
	Roster RosterView
	Panel  PanelView
}

// RosterPage owns a roster cache and the upload panel bound to one student
// at a time. Its state is written under mu, never across a network call.
type RosterPage struct {
	*Dispatcher

	store  ports.RemoteStore
	log    *slog.Logger
	roster *Roster
	mut    *Mutator

	mu    sync.Mutex
	panel PanelView
}

func NewRosterPage(store ports.RemoteStore, log *slog.Logger) *RosterPage {
	p := &RosterPage{
		Dispatcher: newDispatcher(),
		store:      store,
		log:        log,
		roster:     NewRoster(store, log),
		mut:        NewMutator(store, log),
	}
	p.handle(ActionOpenPanel, func(ctx context.Context, ev Event) error {
		p.OpenPanel(ctx, ev.StudentID)
		return nil
	})
	p.handle(ActionClosePanel, func(context.Context, Event) error {
		p.ClosePanel()
		return nil
	})
	p.handle(ActionUpload, func(ctx context.Context, ev Event) error {
		p.Upload(ctx, ev.Form)
		return nil
	})
	p.handle(ActionDelete, func(ctx context.Context, ev Event) error {
		p.Delete(ctx, ev.Action, ev.Form.Password, ev.Confirm)
		return nil
	})
	return p
}

// Load is the initial page load.
func (p *RosterPage) Load(ctx context.Context) { p.roster.Reload(ctx) }

func (p *RosterPage) Roster() *Roster { return p.roster }

// OpenPanel binds the panel to a cached student, clears its inputs, message
// and history, loads the history and only then shows it. Ids missing from the
// cache are ignored.
func (p *RosterPage) OpenPanel(ctx context.Context, studentID string) {
	student, ok := p.roster.Lookup(studentID)
	if !ok {
		p.log.Debug("open panel: student not in cache", "student", studentID)
		return
	}

	p.mu.Lock()
	p.panel.Student = student
	p.panel.Form = Form{}
	p.panel.Message = domain.Message{}
	p.panel.History = HistoryView{}
	p.panel.Open = false
	p.mu.Unlock()

	history := loadHistory(ctx, p.store, p.log, studentID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panel.Student.ID != studentID {
		return // a later open won
	}
	p.panel.History = history
	p.panel.Open = true
}

// ClosePanel hides the panel. Work already in flight keeps running.
func (p *RosterPage) ClosePanel() {
	p.mu.Lock()
	p.panel.Open = false
	p.mu.Unlock()
}

// Upload submits the panel form for the bound student.
func (p *RosterPage) Upload(ctx context.Context, form Form) bool {
	p.mu.Lock()
	p.panel.Form = form
	studentID := p.panel.Student.ID
	p.mu.Unlock()

	return p.mut.Upload(ctx, UploadInput{
		StudentID: studentID,
		Password:  form.Password,
		TaskName:  form.TaskName,
		Link:      form.Link,
	}, p.showMessage, p.refreshHistory(studentID), p.roster.Reload)
}

// Delete removes a submission listed in the panel using the panel password.
func (p *RosterPage) Delete(ctx context.Context, target Action, password string, confirm Confirmer) bool {
	p.mu.Lock()
	p.panel.Form.Password = password
	p.mu.Unlock()

	return p.mut.Delete(ctx, DeleteInput{
		StudentID:    target.StudentID,
		SubmissionID: target.SubmissionID,
		Password:     password,
	}, confirm, p.showMessage, p.refreshHistory(target.StudentID), p.roster.Reload)
}

func (p *RosterPage) showMessage(m domain.Message) {
	p.mu.Lock()
	p.panel.Message = m
	p.mu.Unlock()
}

// refreshHistory reloads a student's history into the panel if the panel is
// still bound to that student.
func (p *RosterPage) refreshHistory(studentID string) Refresh {
	return func(ctx context.Context) {
		history := loadHistory(ctx, p.store, p.log, studentID)
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.panel.Student.ID == studentID {
			p.panel.History = history
		}
	}
}

// View snapshots the page for rendering.
func (p *RosterPage) View() RosterPageView {
	roster := p.roster.View()
	p.mu.Lock()
	defer p.mu.Unlock()
	return RosterPageView{Roster: roster, Panel: p.panel}
}

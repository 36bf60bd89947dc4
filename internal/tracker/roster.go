package tracker

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
)

// RosterRow is one rendered student row.
type RosterRow struct {
	Student    domain.Student
	Upload     Action
	DetailHref string
}

// RosterView is what the roster table shows: either rows or a single
// placeholder row.
type RosterView struct {
	Rows        []RosterRow
	Placeholder string
	Failed      bool
}

// Roster is the roster cache. It is only ever replaced wholesale by Reload.
type Roster struct {
	store ports.RemoteStore
	log   *slog.Logger

	mu       sync.RWMutex
	students []domain.Student
	view     RosterView
}

func NewRoster(store ports.RemoteStore, log *slog.Logger) *Roster {
	return &Roster{store: store, log: log}
}

// Reload fetches all students with counts and rebuilds the view. On failure
// the view turns into an error row; the last good snapshot stays cached.
func (r *Roster) Reload(ctx context.Context) {
	students, err := r.store.ListStudentsWithCounts(ctx)
	if err != nil {
		r.log.Error("roster reload failed", "err", err)
		r.mu.Lock()
		r.view = RosterView{Placeholder: textRosterFailed, Failed: true}
		r.mu.Unlock()
		return
	}
	if students == nil {
		students = []domain.Student{}
	}
	view := buildRosterView(students)

	r.mu.Lock()
	r.students = students
	r.view = view
	r.mu.Unlock()
}

// Lookup resolves a row's student id through the cache.
func (r *Roster) Lookup(id string) (domain.Student, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.students {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Student{}, false
}

// Students returns a copy of the cached snapshot.
func (r *Roster) Students() []domain.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Student(nil), r.students...)
}

func (r *Roster) View() RosterView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

func buildRosterView(students []domain.Student) RosterView {
	if len(students) == 0 {
		return RosterView{Placeholder: textNoStudents}
	}
	rows := make([]RosterRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, RosterRow{
			Student:    s,
			Upload:     Action{Kind: ActionOpenPanel, StudentID: s.ID},
			DetailHref: DetailHref(s.ID),
		})
	}
	return RosterView{Rows: rows}
}

// DetailHref is the address of a student's standalone detail page.
func DetailHref(studentID string) string {
	return "tasks?" + url.Values{"studentId": {studentID}}.Encode()
}

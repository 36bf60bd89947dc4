package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/csg33k/tugas-tracker/internal/ports"
	"github.com/csg33k/tugas-tracker/internal/templates"
	"github.com/csg33k/tugas-tracker/internal/tracker"
)

// PageHeader names the request header carrying the page id.
const PageHeader = "X-Page-ID"

type Handler struct {
	store  ports.RemoteStore
	report ports.RosterReporter
	view   *templates.Renderer
	log    *slog.Logger
	pages  *registry
}

func New(store ports.RemoteStore, report ports.RosterReporter, view *templates.Renderer, log *slog.Logger, pageTTL time.Duration) *Handler {
	return &Handler{
		store:  store,
		report: report,
		view:   view,
		log:    log,
		pages:  newRegistry(pageTTL),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/", h.index)
	r.Get("/roster.pdf", h.rosterPDF)
	r.Post("/panel/open", h.rosterAction(tracker.ActionOpenPanel))
	r.Post("/panel/close", h.rosterAction(tracker.ActionClosePanel))
	r.Post("/panel/upload", h.rosterAction(tracker.ActionUpload))
	r.Post("/panel/delete", h.rosterAction(tracker.ActionDelete))
	r.Get("/tasks", h.detail)
	r.Post("/tasks/delete", h.detailDelete)
	r.Post("/confirm", h.confirm)
	return r
}

// Close cancels every live page.
func (h *Handler) Close() { h.pages.close() }

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	p := tracker.NewRosterPage(h.store, h.log)
	e := h.pages.add(kindRoster, p, func() templ.Component { return h.view.PanelUpdate(p.View()) })
	p.Load(e.ctx)
	render(w, r, h.view.RosterPage(e.id, p.View()))
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	d := tracker.NewDetailPage(h.store, h.log)
	e := h.pages.add(kindDetail, d, func() templ.Component { return h.view.DetailUpdate(d.View()) })
	d.Load(e.ctx, r.URL.Query().Get("studentId"))
	render(w, r, h.view.DetailPage(e.id, d.View()))
}

func (h *Handler) rosterAction(kind tracker.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := h.page(w, r, kindRoster)
		if !ok {
			return
		}
		h.run(w, r, e, eventFromForm(r, kind), "#"+templates.PanelID)
	}
}

func (h *Handler) detailDelete(w http.ResponseWriter, r *http.Request) {
	e, ok := h.page(w, r, kindDetail)
	if !ok {
		return
	}
	h.run(w, r, e, eventFromForm(r, tracker.ActionDelete), "#"+templates.DetailBodyID)
}

// run dispatches ev on the page's own context. If the action stops to ask
// for confirmation, the caller gets the question instead of the result and
// the action stays parked until /confirm answers it. A new event on the page
// declines whatever was still waiting for an answer.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, e *pageEntry, ev tracker.Event, target string) {
	for _, done := range e.dropPending() {
		select {
		case <-done:
		case <-r.Context().Done():
			return
		}
	}

	conf := tracker.NewPromptConfirmer()
	ev.Confirm = conf
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.page.Dispatch(e.ctx, ev); err != nil {
			h.log.Warn("dispatch failed", "page", e.id, "action", ev.Kind, "err", err)
		}
	}()

	select {
	case <-done:
		render(w, r, e.fragment())
	case p := <-conf.Prompts():
		e.park(p, done)
		w.Header().Set("HX-Retarget", "#"+templates.ConfirmSlotID)
		w.Header().Set("HX-Reswap", "innerHTML")
		render(w, r, h.view.ConfirmDialog(p.ID, p.Text, target))
	case <-r.Context().Done():
	}
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	e, ok := h.page(w, r, "")
	if !ok {
		return
	}
	pa, ok := e.unpark(r.FormValue("prompt_id"))
	if !ok {
		http.Error(w, "no such confirmation", http.StatusNotFound)
		return
	}
	pa.prompt.Answer(r.FormValue("answer") == "yes")
	select {
	case <-pa.done:
		render(w, r, e.fragment())
	case <-r.Context().Done():
	}
}

func (h *Handler) rosterPDF(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudentsWithCounts(r.Context())
	if err != nil {
		h.log.Error("roster report: load failed", "err", err)
		http.Error(w, "gagal memuat data mahasiswa", http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := h.report.Report(r.Context(), students, &buf); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	filename := fmt.Sprintf("rekap_tugas_%s.pdf", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// page finds the live page named by the request. An empty kind accepts any.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, kind pageKind) (*pageEntry, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return nil, false
	}
	id := r.Header.Get(PageHeader)
	if id == "" {
		id = r.FormValue("page_id")
	}
	e, ok := h.pages.get(id)
	if !ok {
		http.Error(w, "halaman kedaluwarsa, muat ulang halaman", http.StatusGone)
		return nil, false
	}
	if kind != "" && e.kind != kind {
		http.Error(w, "action not available on this page", 400)
		return nil, false
	}
	return e, true
}

func eventFromForm(r *http.Request, kind tracker.ActionKind) tracker.Event {
	return tracker.Event{
		Action: tracker.Action{
			Kind:         kind,
			StudentID:    r.FormValue("student_id"),
			SubmissionID: r.FormValue("submission_id"),
		},
		Form: tracker.Form{
			Password: r.FormValue("password"),
			TaskName: r.FormValue("task_name"),
			Link:     r.FormValue("link"),
		},
	}
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/templates"
)

type memStore struct {
	mu       sync.Mutex
	students []domain.Student
	subs     map[string][]domain.Submission
	calls    []string
}

func (m *memStore) log(c string) { m.calls = append(m.calls, c) }

func (m *memStore) called(c string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.calls {
		if x == c {
			return true
		}
	}
	return false
}

func (m *memStore) ListStudentsWithCounts(ctx context.Context) ([]domain.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("with-counts")
	out := make([]domain.Student, 0, len(m.students))
	for _, s := range m.students {
		s.SubmissionCount = len(m.subs[s.ID])
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) ListStudents(ctx context.Context) ([]domain.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("students")
	return append([]domain.Student(nil), m.students...), nil
}

func (m *memStore) History(ctx context.Context, id string) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("history " + id)
	return append([]domain.Submission(nil), m.subs[id]...), nil
}

func (m *memStore) Upload(ctx context.Context, id string, req domain.UploadRequest) (domain.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("upload " + id)
	if req.Password != "rahasia" {
		return domain.ActionResult{Status: domain.StatusError, Message: "Sandi salah", OK: true}, nil
	}
	m.subs[id] = append(m.subs[id], domain.Submission{ID: "new", TaskName: req.TaskName, Link: req.Link, UploadedAt: time.Now()})
	return domain.ActionResult{Status: domain.StatusSuccess, Message: "Link tugas berhasil disimpan", OK: true}, nil
}

func (m *memStore) Delete(ctx context.Context, id, subID string, req domain.DeleteRequest) (domain.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log("delete " + id + "/" + subID)
	if req.Password != "rahasia" {
		return domain.ActionResult{Status: domain.StatusError, Message: "Sandi salah", OK: true}, nil
	}
	var keep []domain.Submission
	for _, s := range m.subs[id] {
		if s.ID != subID {
			keep = append(keep, s)
		}
	}
	m.subs[id] = keep
	return domain.ActionResult{Status: domain.StatusSuccess, OK: true}, nil
}

type stubReport struct{}

func (stubReport) Report(ctx context.Context, students []domain.Student, w io.Writer) error {
	_, err := io.WriteString(w, "%PDF-stub")
	return err
}

func setup(t *testing.T) (*memStore, *Handler, http.Handler) {
	t.Helper()
	store := &memStore{
		students: []domain.Student{{ID: "a1", Name: "Ani", Number: "2201001"}},
		subs: map[string][]domain.Submission{
			"a1": {{ID: "s1", TaskName: "Tugas <1>", Link: "https://drive.test/1", UploadedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}},
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(store, stubReport{}, templates.NewRenderer(time.UTC, ""), log, time.Hour)
	t.Cleanup(h.Close)
	return store, h, h.Routes()
}

var (
	pageIDRe   = regexp.MustCompile(`X-Page-ID&#34;:&#34;([0-9a-f-]+)&#34;`)
	promptIDRe = regexp.MustCompile(`prompt_id&#34;:&#34;([0-9a-f-]+)&#34;`)
)

func loadPage(t *testing.T, routes http.Handler, path string) (string, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	m := pageIDRe.FindStringSubmatch(body)
	require.Len(t, m, 2, "page id in %s", body)
	return m[1], body
}

func post(routes http.Handler, pageID, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	if pageID != "" {
		req.Header.Set(PageHeader, pageID)
	}
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	return rec
}

func TestIndex_RendersRoster(t *testing.T) {
	_, h, routes := setup(t)

	_, body := loadPage(t, routes, "/")

	assert.Contains(t, body, `<tr data-id="a1">`)
	assert.Contains(t, body, "<td>1</td>")
	assert.Equal(t, 1, h.pages.size())
}

func TestOpenPanel_ReturnsPanelAndRoster(t *testing.T) {
	_, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")

	rec := post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="modal show"`)
	assert.Contains(t, body, "Ani (NIM 2201001)")
	assert.Contains(t, body, "Tugas &lt;1&gt;")
	assert.Contains(t, body, `id="roster" hx-swap-oob="true"`)
}

func TestUpload_UpdatesCount(t *testing.T) {
	store, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")
	post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})

	rec := post(routes, pageID, "/panel/upload", url.Values{
		"password":  {"rahasia"},
		"task_name": {"Tugas 2"},
		"link":      {"https://drive.test/2"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Link tugas berhasil disimpan")
	assert.Contains(t, body, "<td>2</td>")
	assert.True(t, store.called("upload a1"))
	assert.NotContains(t, body, "rahasia", "password stays out of the markup")
}

func TestUpload_WrongPasswordMessage(t *testing.T) {
	_, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")
	post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})

	rec := post(routes, pageID, "/panel/upload", url.Values{
		"password": {"salah"}, "task_name": {"T"}, "link": {"L"},
	})

	assert.Contains(t, rec.Body.String(), `class="message error">Sandi salah</p>`)
}

func TestDelete_ConfirmFlow(t *testing.T) {
	store, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")
	post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})

	rec := post(routes, pageID, "/panel/delete", url.Values{
		"student_id": {"a1"}, "submission_id": {"s1"}, "password": {"rahasia"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#confirm-slot", rec.Header().Get("HX-Retarget"))
	m := promptIDRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)
	assert.False(t, store.called("delete a1/s1"), "nothing deleted before the answer")

	rec = post(routes, pageID, "/confirm", url.Values{"prompt_id": {m[1]}, "answer": {"yes"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, store.called("delete a1/s1"))
	assert.Contains(t, body, "Tugas dihapus.")
	assert.Contains(t, body, "Belum ada link tugas yang disimpan.")
	assert.Contains(t, body, "<td>0</td>")
	assert.Contains(t, body, `id="confirm-slot" hx-swap-oob="true"`)
}

func TestDelete_DeclinedKeepsSubmission(t *testing.T) {
	store, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")
	post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})

	rec := post(routes, pageID, "/panel/delete", url.Values{
		"student_id": {"a1"}, "submission_id": {"s1"}, "password": {"rahasia"},
	})
	m := promptIDRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)

	rec = post(routes, pageID, "/confirm", url.Values{"prompt_id": {m[1]}, "answer": {"no"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, store.called("delete a1/s1"))
	assert.Contains(t, rec.Body.String(), "Tugas &lt;1&gt;")

	rec = post(routes, pageID, "/confirm", url.Values{"prompt_id": {m[1]}, "answer": {"yes"}})
	assert.Equal(t, http.StatusNotFound, rec.Code, "a prompt is answered once")
}

func TestDelete_AbandonedPromptsAreDeclined(t *testing.T) {
	store, h, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")
	e, ok := h.pages.get(pageID)
	require.True(t, ok)

	var prompts []string
	for i := 0; i < 50; i++ {
		post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})
		rec := post(routes, pageID, "/panel/delete", url.Values{
			"student_id": {"a1"}, "submission_id": {"s1"}, "password": {"rahasia"},
		})
		m := promptIDRe.FindStringSubmatch(rec.Body.String())
		require.Len(t, m, 2)
		prompts = append(prompts, m[1])

		rec = post(routes, pageID, "/panel/close", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, e.pendingCount(), "round %d", i)
	}

	for _, id := range prompts {
		rec := post(routes, pageID, "/confirm", url.Values{"prompt_id": {id}, "answer": {"yes"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.False(t, store.called("delete a1/s1"))
}

func TestDelete_SecondPromptReplacesFirst(t *testing.T) {
	store, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")
	post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})
	form := url.Values{"student_id": {"a1"}, "submission_id": {"s1"}, "password": {"rahasia"}}

	first := promptIDRe.FindStringSubmatch(post(routes, pageID, "/panel/delete", form).Body.String())
	require.Len(t, first, 2)
	second := promptIDRe.FindStringSubmatch(post(routes, pageID, "/panel/delete", form).Body.String())
	require.Len(t, second, 2)
	require.NotEqual(t, first[1], second[1])

	rec := post(routes, pageID, "/confirm", url.Values{"prompt_id": {first[1]}, "answer": {"yes"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, store.called("delete a1/s1"))

	rec = post(routes, pageID, "/confirm", url.Values{"prompt_id": {second[1]}, "answer": {"yes"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.called("delete a1/s1"))
}

func TestDelete_EmptyPasswordSkipsPrompt(t *testing.T) {
	_, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")
	post(routes, pageID, "/panel/open", url.Values{"student_id": {"a1"}})

	rec := post(routes, pageID, "/panel/delete", url.Values{"student_id": {"a1"}, "submission_id": {"s1"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Retarget"))
	assert.Contains(t, rec.Body.String(), "Isi sandi dulu sebelum menghapus tugas.")
}

func TestUnknownPage(t *testing.T) {
	_, _, routes := setup(t)

	rec := post(routes, "no-such-page", "/panel/open", url.Values{"student_id": {"a1"}})

	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestDetailDelete_RejectsRosterPage(t *testing.T) {
	_, _, routes := setup(t)
	pageID, _ := loadPage(t, routes, "/")

	rec := post(routes, pageID, "/tasks/delete", url.Values{"student_id": {"a1"}, "submission_id": {"s1"}, "password": {"rahasia"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetailPage_UnknownStudent(t *testing.T) {
	store, _, routes := setup(t)

	_, body := loadPage(t, routes, "/tasks?studentId=ghost")

	assert.Contains(t, body, "Mahasiswa tidak ditemukan.")
	assert.False(t, store.called("history ghost"))
}

func TestDetailPage_DeleteFlow(t *testing.T) {
	store, _, routes := setup(t)
	pageID, body := loadPage(t, routes, "/tasks?studentId=a1")
	assert.Contains(t, body, "Ani (NIM 2201001)")
	assert.Contains(t, body, `hx-post="/tasks/delete"`)

	rec := post(routes, pageID, "/tasks/delete", url.Values{"student_id": {"a1"}, "submission_id": {"s1"}, "password": {"rahasia"}})
	m := promptIDRe.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2)
	rec = post(routes, pageID, "/confirm", url.Values{"prompt_id": {m[1]}, "answer": {"yes"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="detail-body"`)
	assert.Contains(t, rec.Body.String(), "Belum ada link tugas yang disimpan.")
	assert.True(t, store.called("delete a1/s1"))
	assert.False(t, store.called("with-counts"), "detail page has no roster")
}

func TestRosterPDF(t *testing.T) {
	_, _, routes := setup(t)
	rec := httptest.NewRecorder()

	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roster.pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestRegistry_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := newRegistry(time.Minute)
	reg.now = func() time.Time { return now }

	e := reg.add(kindDetail, nil, nil)
	_, ok := reg.get(e.id)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = reg.get(e.id)
	assert.False(t, ok)
	assert.Error(t, e.ctx.Err(), "expired page context is cancelled")
	assert.Zero(t, reg.size())
}

package storeapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/csg33k/tugas-tracker/internal/adapters/remotestore"
	"github.com/csg33k/tugas-tracker/internal/adapters/sqlite"
	"github.com/csg33k/tugas-tracker/internal/domain"
)

const password = "rahasia"

type fixture struct {
	repo   *sqlite.Repository
	srv    *httptest.Server
	client *remotestore.Client
	ani    *domain.Student
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(ctx))

	ani := &domain.Student{Name: "Ani", Number: "2201001"}
	require.NoError(t, repo.CreateStudent(ctx, ani))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(repo, hash, log).Routes())
	t.Cleanup(srv.Close)

	return &fixture{
		repo:   repo,
		srv:    srv,
		client: remotestore.New(srv.URL, srv.Client(), log),
		ani:    ani,
	}
}

func TestUploadThenHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.client.Upload(ctx, f.ani.ID, domain.UploadRequest{Password: password, TaskName: " Tugas 1 ", Link: "https://drive.test/1"})
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, msgUploaded, res.Message)

	subs, err := f.client.History(ctx, f.ani.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Tugas 1", subs[0].TaskName)
	assert.False(t, subs[0].UploadedAt.IsZero())

	list, err := f.client.ListStudentsWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].SubmissionCount)
	assert.Equal(t, "Ani", list[0].Name)
}

func TestUpload_WrongPassword(t *testing.T) {
	f := setup(t)

	res, err := f.client.Upload(context.Background(), f.ani.ID, domain.UploadRequest{Password: "salah", TaskName: "t", Link: "l"})

	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, domain.StatusError, res.Status)
	assert.Equal(t, msgWrongPassword, res.Message)
}

func TestUpload_StatusCodes(t *testing.T) {
	f := setup(t)
	cases := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing field", "/submissions/" + f.ani.ID + "/upload", `{"password":"rahasia","taskName":"t"}`, http.StatusBadRequest},
		{"blank after trim", "/submissions/" + f.ani.ID + "/upload", `{"password":"rahasia","taskName":"  ","link":"l"}`, http.StatusBadRequest},
		{"not json", "/submissions/" + f.ani.ID + "/upload", `nope`, http.StatusBadRequest},
		{"wrong password", "/submissions/" + f.ani.ID + "/upload", `{"password":"x","taskName":"t","link":"l"}`, http.StatusUnauthorized},
		{"unknown student", "/submissions/ghost/upload", `{"password":"rahasia","taskName":"t","link":"l"}`, http.StatusNotFound},
		{"ok", "/submissions/" + f.ani.ID + "/upload", `{"password":"rahasia","taskName":"t","link":"l"}`, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := http.Post(f.srv.URL+tc.path, "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.want, res.StatusCode)
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
		})
	}
}

func TestDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	sub := &domain.Submission{StudentID: f.ani.ID, TaskName: "t", Link: "l"}
	require.NoError(t, f.repo.AddSubmission(ctx, sub))

	res, err := f.client.Delete(ctx, f.ani.ID, sub.ID, domain.DeleteRequest{Password: "salah"})
	require.NoError(t, err)
	assert.True(t, res.Failed())

	res, err = f.client.Delete(ctx, f.ani.ID, sub.ID, domain.DeleteRequest{Password: password})
	require.NoError(t, err)
	assert.False(t, res.Failed())
	assert.Equal(t, msgDeleted, res.Message)

	res, err = f.client.Delete(ctx, f.ani.ID, sub.ID, domain.DeleteRequest{Password: password})
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, msgTaskNotFound, res.Message)
}

func TestHistory_UnknownStudent(t *testing.T) {
	f := setup(t)

	_, err := f.client.History(context.Background(), "ghost")

	assert.ErrorIs(t, err, remotestore.ErrUnexpectedStatus)
}

func TestListStudents_WireFields(t *testing.T) {
	f := setup(t)

	res, err := http.Get(f.srv.URL + "/students")
	require.NoError(t, err)
	defer res.Body.Close()
	var raw []map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	require.Len(t, raw, 1)
	assert.Contains(t, raw[0], "_id")
	assert.Equal(t, "2201001", raw[0]["nim"])
}

func TestSeed_SkipsKnownNumbers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n, err := Seed(ctx, f.repo, strings.NewReader(`[
		{"nama":"Ani","nim":"2201001"},
		{"nama":"Budi","nim":"2201002"},
		{"nama":"Tanpa NIM"}
	]`))

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	list, err := f.repo.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFromError(nil))
	assert.Equal(t, http.StatusNotFound, statusFromError(domain.ErrNotFound))
	assert.Equal(t, http.StatusUnauthorized, statusFromError(errUnauthorized))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(io.ErrUnexpectedEOF))
}

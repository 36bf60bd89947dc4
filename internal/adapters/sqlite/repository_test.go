package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestStudents_CountsAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	ani := &domain.Student{Name: "Ani", Number: "2201001"}
	budi := &domain.Student{Name: "Budi", Number: "2201002"}
	require.NoError(t, repo.CreateStudent(ctx, ani))
	require.NoError(t, repo.CreateStudent(ctx, budi))
	require.NotEmpty(t, ani.ID)

	for _, task := range []string{"Tugas 1", "Tugas 2"} {
		require.NoError(t, repo.AddSubmission(ctx, &domain.Submission{StudentID: budi.ID, TaskName: task, Link: "https://x"}))
	}

	list, err := repo.ListStudentsWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ani", list[0].Name)
	assert.Zero(t, list[0].SubmissionCount)
	assert.Equal(t, 2, list[1].SubmissionCount)

	plain, err := repo.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, plain, 2)
	assert.Zero(t, plain[1].SubmissionCount)
}

func TestListStudents_EmptyIsNotNil(t *testing.T) {
	list, err := newRepo(t).ListStudents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetStudent_NotFound(t *testing.T) {
	_, err := newRepo(t).GetStudent(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmissions_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	s := &domain.Student{Name: "Ani", Number: "1"}
	require.NoError(t, repo.CreateStudent(ctx, s))

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AddSubmission(ctx, &domain.Submission{StudentID: s.ID, TaskName: "old", Link: "a", UploadedAt: base}))
	require.NoError(t, repo.AddSubmission(ctx, &domain.Submission{StudentID: s.ID, TaskName: "new", Link: "b", UploadedAt: base.Add(time.Hour)}))

	subs, err := repo.ListSubmissions(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "new", subs[0].TaskName)
	assert.Equal(t, s.ID, subs[0].StudentID)
	assert.True(t, subs[1].UploadedAt.Equal(base))
}

func TestAddSubmission_UnknownStudent(t *testing.T) {
	err := newRepo(t).AddSubmission(context.Background(), &domain.Submission{StudentID: "ghost", TaskName: "t", Link: "l"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSubmission(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	ani := &domain.Student{Name: "Ani", Number: "1"}
	budi := &domain.Student{Name: "Budi", Number: "2"}
	require.NoError(t, repo.CreateStudent(ctx, ani))
	require.NoError(t, repo.CreateStudent(ctx, budi))
	sub := &domain.Submission{StudentID: ani.ID, TaskName: "t", Link: "l"}
	require.NoError(t, repo.AddSubmission(ctx, sub))

	assert.ErrorIs(t, repo.DeleteSubmission(ctx, budi.ID, sub.ID), domain.ErrNotFound, "owned by another student")
	require.NoError(t, repo.DeleteSubmission(ctx, ani.ID, sub.ID))
	assert.ErrorIs(t, repo.DeleteSubmission(ctx, ani.ID, sub.ID), domain.ErrNotFound)

	subs, err := repo.ListSubmissions(ctx, ani.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

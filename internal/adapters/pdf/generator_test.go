package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

func TestReport_WritesPDF(t *testing.T) {
	g := New(time.UTC)
	g.now = func() time.Time { return time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC) }

	var buf bytes.Buffer
	err := g.Report(context.Background(), []domain.Student{
		{ID: "a1", Name: "Ani Prasetyo", Number: "2201001", SubmissionCount: 3},
		{ID: "b2", Name: strings.Repeat("Nama Panjang ", 20), Number: "2201002"},
	}, &buf)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestReport_ManyStudentsPaginates(t *testing.T) {
	students := make([]domain.Student, 120)
	for i := range students {
		students[i] = domain.Student{ID: fmt.Sprint(i), Name: "Mahasiswa", Number: fmt.Sprint(2200000 + i), SubmissionCount: i % 4}
	}
	var one, many bytes.Buffer
	require.NoError(t, New(nil).Report(context.Background(), students[:1], &one))
	require.NoError(t, New(nil).Report(context.Background(), students, &many))

	assert.Greater(t, many.Len(), one.Len())
}

func TestReport_EmptyRoster(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(time.UTC).Report(context.Background(), nil, &buf))
	assert.NotZero(t, buf.Len())
}

func TestReport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer

	assert.ErrorIs(t, New(time.UTC).Report(ctx, nil, &buf), context.Canceled)
	assert.Zero(t, buf.Len())
}

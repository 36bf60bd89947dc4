package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/tugas-tracker/internal/domain"
)

func TestDetailLoad_MissingID(t *testing.T) {
	store := newFakeStore("pw", ani)
	d := NewDetailPage(store, quietLog())

	d.Load(context.Background(), "")

	v := d.View()
	assert.Equal(t, textNoStudentID, v.Label)
	assert.False(t, v.Found)
	assert.Empty(t, store.Calls())
}

func TestDetailLoad_UnknownStudentSkipsHistory(t *testing.T) {
	store := newFakeStore("pw", ani)
	d := NewDetailPage(store, quietLog())

	d.Load(context.Background(), "nobody")

	v := d.View()
	assert.Equal(t, textStudentNotFound, v.Label)
	assert.Equal(t, []string{"students"}, store.Calls())
}

func TestDetailLoad_ListFailure(t *testing.T) {
	store := newFakeStore("pw", ani)
	store.failList = errNetwork
	d := NewDetailPage(store, quietLog())

	d.Load(context.Background(), "a1")

	assert.Equal(t, textDetailFailed, d.View().Label)
}

func TestDetailLoad_Found(t *testing.T) {
	store := newFakeStore("pw", ani)
	store.subs["a1"] = []domain.Submission{
		{ID: "s2", TaskName: "Kedua"},
		{ID: "s1", TaskName: "Pertama"},
	}
	d := NewDetailPage(store, quietLog())

	d.Load(context.Background(), "a1")

	v := d.View()
	assert.True(t, v.Found)
	assert.Equal(t, "Ani (NIM 2201001)", v.Label)
	require.Len(t, v.History.Items, 2)
	assert.Equal(t, "Kedua", v.History.Items[0].Submission.TaskName, "store order is kept")
	assert.Equal(t, Action{Kind: ActionDelete, StudentID: "a1", SubmissionID: "s1"}, v.History.Items[1].Delete)
}

func TestDetailDelete_ReloadsHistoryOnly(t *testing.T) {
	store := newFakeStore("pw", ani)
	store.subs["a1"] = []domain.Submission{{ID: "s1", TaskName: "Pertama"}}
	d := NewDetailPage(store, quietLog())
	ctx := context.Background()
	d.Load(ctx, "a1")
	calls := len(store.Calls())

	err := d.Dispatch(ctx, Event{
		Action:  d.View().History.Items[0].Delete,
		Form:    Form{Password: "pw"},
		Confirm: always(true),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"delete a1/s1", "history a1"}, store.Calls()[calls:])
	v := d.View()
	assert.Equal(t, textNoSubmissions, v.History.Placeholder)
	assert.Equal(t, domain.MessageSuccess, v.Message.Kind)
}

func TestDetailDelete_EmptyPassword(t *testing.T) {
	store := newFakeStore("pw", ani)
	store.subs["a1"] = []domain.Submission{{ID: "s1"}}
	d := NewDetailPage(store, quietLog())
	ctx := context.Background()
	d.Load(ctx, "a1")
	c := &countingConfirmer{answer: true}

	assert.False(t, d.Delete(ctx, d.View().History.Items[0].Delete, "", c))
	assert.Zero(t, c.asked)
	assert.Equal(t, domain.Failure(textPasswordFirst), d.View().Message)
}

func TestDetailDelete_NetworkError(t *testing.T) {
	store := newFakeStore("pw", ani)
	store.subs["a1"] = []domain.Submission{{ID: "s1"}}
	d := NewDetailPage(store, quietLog())
	ctx := context.Background()
	d.Load(ctx, "a1")
	store.failAction = errNetwork

	assert.False(t, d.Delete(ctx, d.View().History.Items[0].Delete, "pw", always(true)))
	assert.Equal(t, domain.Failure(textDeleteNetwork), d.View().Message)
}

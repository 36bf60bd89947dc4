package tracker

import (
	"context"
	"log/slog"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
)

// HistoryItem is one rendered submission with its delete control.
type HistoryItem struct {
	Submission domain.Submission
	Delete     Action
}

// HistoryView is a student's submission list as last loaded, in store order.
type HistoryView struct {
	StudentID   string
	Items       []HistoryItem
	Placeholder string
	Failed      bool
}

// loadHistory fetches a student's submissions. Failures become a placeholder
// and never escape.
func loadHistory(ctx context.Context, store ports.RemoteStore, log *slog.Logger, studentID string) HistoryView {
	subs, err := store.History(ctx, studentID)
	if err != nil {
		log.Error("history load failed", "student", studentID, "err", err)
		return HistoryView{StudentID: studentID, Placeholder: textHistoryFailed, Failed: true}
	}
	if len(subs) == 0 {
		return HistoryView{StudentID: studentID, Placeholder: textNoSubmissions}
	}
	items := make([]HistoryItem, 0, len(subs))
	for _, sub := range subs {
		items = append(items, HistoryItem{
			Submission: sub,
			Delete:     Action{Kind: ActionDelete, StudentID: studentID, SubmissionID: sub.ID},
		})
	}
	return HistoryView{StudentID: studentID, Items: items}
}

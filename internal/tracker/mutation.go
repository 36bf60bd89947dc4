package tracker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
)

// Refresh is a reload step run after a successful mutation.
type Refresh func(ctx context.Context)

// UploadInput is an upload as entered by the operator.
type UploadInput struct {
	StudentID string `validate:"required"`
	Password  string `validate:"required"`
	TaskName  string `validate:"required"`
	Link      string `validate:"required"`
}

// DeleteInput identifies the submission to delete and the password in scope.
type DeleteInput struct {
	StudentID    string
	SubmissionID string
	Password     string
}

// Mutator runs password-gated actions: local validation, exactly one store
// call, interpretation of the answer, then the caller's reloads in order.
type Mutator struct {
	store    ports.RemoteStore
	log      *slog.Logger
	validate *validator.Validate
}

func NewMutator(store ports.RemoteStore, log *slog.Logger) *Mutator {
	return &Mutator{
		store:    store,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Upload stores a new submission link. show receives the status message;
// on success every refresh runs, in order, before Upload returns.
func (m *Mutator) Upload(ctx context.Context, in UploadInput, show func(domain.Message), refresh ...Refresh) bool {
	in = UploadInput{
		StudentID: strings.TrimSpace(in.StudentID),
		Password:  strings.TrimSpace(in.Password),
		TaskName:  strings.TrimSpace(in.TaskName),
		Link:      strings.TrimSpace(in.Link),
	}
	if err := m.validate.Struct(in); err != nil {
		show(domain.Failure(textFieldsRequired))
		return false
	}

	res, err := m.store.Upload(ctx, in.StudentID, domain.UploadRequest{
		Password: in.Password,
		TaskName: in.TaskName,
		Link:     in.Link,
	})
	if err != nil {
		m.log.Error("upload failed", "student", in.StudentID, "err", err)
		show(domain.Failure(textUploadNetwork))
		return false
	}
	return m.settle(ctx, "upload", res, textUploadFailed, textUploaded, show, refresh)
}

// Delete removes a submission after the operator confirms. An empty password
// stops it before the question is asked.
func (m *Mutator) Delete(ctx context.Context, in DeleteInput, confirm Confirmer, show func(domain.Message), refresh ...Refresh) bool {
	password := strings.TrimSpace(in.Password)
	if password == "" {
		show(domain.Failure(textPasswordFirst))
		return false
	}
	if confirm == nil {
		m.log.Warn("delete without a confirmer", "student", in.StudentID, "submission", in.SubmissionID)
		return false
	}
	yes, err := confirm.Confirm(ctx, textConfirmDelete)
	if err != nil {
		m.log.Debug("delete confirmation abandoned", "submission", in.SubmissionID, "err", err)
		return false
	}
	if !yes {
		return false
	}

	res, err := m.store.Delete(ctx, in.StudentID, in.SubmissionID, domain.DeleteRequest{Password: password})
	if err != nil {
		m.log.Error("delete failed", "student", in.StudentID, "submission", in.SubmissionID, "err", err)
		show(domain.Failure(textDeleteNetwork))
		return false
	}
	return m.settle(ctx, "delete", res, textDeleteFailed, textDeleted, show, refresh)
}

func (m *Mutator) settle(ctx context.Context, op string, res domain.ActionResult, failed, succeeded string, show func(domain.Message), refresh []Refresh) bool {
	if res.Failed() {
		if res.Message == "" {
			m.log.Warn(op+" rejected without a message", "ok", res.OK, "status", res.Status)
		}
		show(domain.Failure(orDefault(res.Message, failed)))
		return false
	}
	show(domain.Success(orDefault(res.Message, succeeded)))
	for _, r := range refresh {
		r(ctx)
	}
	return true
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

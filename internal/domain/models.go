package domain

import (
	"errors"
	"time"
)

// Wire values of ActionResult.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrNotFound is returned by stores when a student or submission does not exist.
var ErrNotFound = errors.New("not found")

// Student is one roster entry. SubmissionCount is computed by the store and is
// zero on the plain /students listing.
type Student struct {
	ID              string `json:"_id"`
	Name            string `json:"nama"`
	Number          string `json:"nim"`
	SubmissionCount int    `json:"totalTugas"`
}

// Label is the "<name> (NIM <number>)" line shown above a student's history.
func (s Student) Label() string {
	return s.Name + " (NIM " + s.Number + ")"
}

// Submission is one uploaded task link, owned by exactly one student.
type Submission struct {
	ID         string    `json:"_id"`
	StudentID  string    `json:"studentId,omitempty"`
	TaskName   string    `json:"taskName"`
	Link       string    `json:"link"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// UploadRequest is the body of POST /submissions/{studentId}/upload.
type UploadRequest struct {
	Password string `json:"password" validate:"required"`
	TaskName string `json:"taskName" validate:"required"`
	Link     string `json:"link" validate:"required"`
}

// DeleteRequest is the body of POST /submissions/{studentId}/{submissionId}/delete.
type DeleteRequest struct {
	Password string `json:"password" validate:"required"`
}

// ActionResult is the store's answer to an upload or delete.
type ActionResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`

	// OK reports whether the HTTP status was 2xx. It never travels on the wire.
	OK bool `json:"-"`
}

// Failed reports whether the store rejected the action, either through the
// HTTP status or through status "error" in an otherwise successful response.
func (r ActionResult) Failed() bool {
	return !r.OK || r.Status == StatusError
}

type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the status line shown under a form.
type Message struct {
	Kind MessageKind
	Text string
}

func Success(text string) Message { return Message{Kind: MessageSuccess, Text: text} }
func Failure(text string) Message { return Message{Kind: MessageError, Text: text} }

// IsZero reports whether no message is set.
func (m Message) IsZero() bool { return m.Text == "" }

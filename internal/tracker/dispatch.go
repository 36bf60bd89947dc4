package tracker

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownAction is returned by Dispatch for kinds a page does not handle.
var ErrUnknownAction = errors.New("unknown action")

type ActionKind string

const (
	ActionOpenPanel  ActionKind = "open-panel"
	ActionClosePanel ActionKind = "close-panel"
	ActionUpload     ActionKind = "upload"
	ActionDelete     ActionKind = "delete"
)

// Action is an interactive control as emitted by a view: what it does and
// which records it targets.
type Action struct {
	Kind         ActionKind
	StudentID    string
	SubmissionID string
}

// Form holds the operator's input fields at the time an event fires.
type Form struct {
	Password string
	TaskName string
	Link     string
}

// Event is a triggered Action plus the input that came with it. Confirm is
// consulted by actions that need the operator's go-ahead.
type Event struct {
	Action
	Form    Form
	Confirm Confirmer
}

type handlerFunc func(ctx context.Context, ev Event) error

// Dispatcher maps triggered events to controller methods.
type Dispatcher struct {
	handlers map[ActionKind]handlerFunc
}

func newDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[ActionKind]handlerFunc)}
}

func (d *Dispatcher) handle(kind ActionKind, fn handlerFunc) {
	d.handlers[kind] = fn
}

// Dispatch runs the handler registered for ev.Kind.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	fn, ok := d.handlers[ev.Kind]
	if !ok {
		return errors.Wrap(ErrUnknownAction, fmt.Sprintf("%q", ev.Kind))
	}
	return fn(ctx, ev)
}

package tracker

import (
	"context"

	"github.com/google/uuid"
)

// Confirmer asks the operator a yes/no question and waits for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts an ordinary function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Prompt is a question published by a PromptConfirmer.
type Prompt struct {
	ID     string
	Text   string
	answer chan bool
}

// Answer delivers the operator's choice. Only the first answer counts.
func (p *Prompt) Answer(yes bool) {
	select {
	case p.answer <- yes:
	default:
	}
}

// PromptConfirmer is a Confirmer whose question is answered out of band,
// e.g. by a later HTTP request. Confirm publishes a Prompt on Prompts and
// blocks until it is answered or ctx ends.
type PromptConfirmer struct {
	prompts chan *Prompt
}

func NewPromptConfirmer() *PromptConfirmer {
	return &PromptConfirmer{prompts: make(chan *Prompt)}
}

// Prompts yields each question as it is asked.
func (c *PromptConfirmer) Prompts() <-chan *Prompt { return c.prompts }

func (c *PromptConfirmer) Confirm(ctx context.Context, text string) (bool, error) {
	p := &Prompt{ID: uuid.NewString(), Text: text, answer: make(chan bool, 1)}
	select {
	case c.prompts <- p:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case yes := <-p.answer:
		return yes, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

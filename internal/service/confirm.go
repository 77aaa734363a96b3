package service

import (
	"context"

	"hotel-inventory-api/internal/errs"
)

// Prompts shown before destructive operations.
const (
	PromptDeleteDevice    = "Bu cihazı silmek istediğinizden emin misiniz?"
	PromptDeletePersonnel = "Bu personeli silmek istediğinizden emin misiniz?"
	PromptDeleteItem      = "Bu envanter öğesini silmek istediğinizden emin misiniz?"
	PromptDeleteSupplier  = "Bu tedarikçiyi silmek istediğinizden emin misiniz?"
	PromptDeleteRule      = "Bu otomatik sipariş kuralını silmek istediğinizden emin misiniz?"
)

// Confirmer asks the caller to approve a destructive operation. The HTTP layer answers
// from the request, the CLI asks on the terminal.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Always approves without asking.
var Always ConfirmFunc = func(context.Context, string) (bool, error) { return true, nil }

// Never declines every prompt.
var Never ConfirmFunc = func(context.Context, string) (bool, error) { return false, nil }

// NotConfirmedError carries the prompt that was declined.
type NotConfirmedError struct {
	Prompt string
}

func (e *NotConfirmedError) Error() string { return "not confirmed: " + e.Prompt }

func (e *NotConfirmedError) Is(target error) bool { return target == errs.ErrNotConfirmed }

func confirm(ctx context.Context, c Confirmer, prompt string) error {
	if c == nil {
		return &NotConfirmedError{Prompt: prompt}
	}
	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return &NotConfirmedError{Prompt: prompt}
	}
	return nil
}

package registration

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type ResendActivationMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *ResendActivationResponse)
}

func (e ResendActivationMessage) Type() string { return "registration.activation.resend" }

type ResendActivationResponse struct {
	Resent bool
}

type ResendActivationHandler struct {
	store *Store
}

func NewResendActivationHandler(store *Store) *ResendActivationHandler {
	return &ResendActivationHandler{store: store}
}

func (h *ResendActivationHandler) Execute(ctx context.Context, event ResendActivationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during activation resend")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResendActivationHandler) execute(ctx context.Context, event ResendActivationMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	resent, err := h.store.ResendActivationMail(ctx, event.Email)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resend activation mail")
	}

	if event.OnResponse != nil {
		event.OnResponse(&ResendActivationResponse{Resent: resent})
	}

	return nil
}

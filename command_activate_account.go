package registration

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type ActivateAccountMessage struct {
	Key        string `json:"key"`
	OnResponse func(resp *ActivateAccountResponse)
}

func (e ActivateAccountMessage) Type() string { return "registration.account.activate" }

type ActivateAccountResponse struct {
	User      *User
	Found     bool
	Expired   bool
	Activated bool
}

type ActivateAccountHandler struct {
	store *Store
}

func NewActivateAccountHandler(store *Store) *ActivateAccountHandler {
	return &ActivateAccountHandler{store: store}
}

func (h *ActivateAccountHandler) Execute(ctx context.Context, event ActivateAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during account activation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *ActivateAccountHandler) execute(ctx context.Context, event ActivateAccountMessage) error {
	resp := &ActivateAccountResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.store.ActivateUser(ctx, event.Key)
	if err != nil {
		// failed activations are part of the expected flow, not
		// application errors
		switch {
		case errors.Is(err, ErrKeyExpired):
			resp.Found = true
			resp.Expired = true
		case IsActivationFailure(err):
		default:
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to execute account activation")
		}
	} else {
		resp.User = user
		resp.Found = true
		resp.Activated = true
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

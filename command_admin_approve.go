package registration

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type AdminApproveMessage struct {
	ProfileID  string `json:"profile_id"`
	OnResponse func(resp *AdminApproveResponse)
}

func (e AdminApproveMessage) Type() string { return "registration.account.approve" }

type AdminApproveResponse struct {
	User     *User
	Approved bool
}

type AdminApproveHandler struct {
	store *Store
}

func NewAdminApproveHandler(store *Store) *AdminApproveHandler {
	return &AdminApproveHandler{store: store}
}

func (h *AdminApproveHandler) Execute(ctx context.Context, event AdminApproveMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during admin approval")
	default:
		return h.execute(ctx, event)
	}
}

func (h *AdminApproveHandler) execute(ctx context.Context, event AdminApproveMessage) error {
	resp := &AdminApproveResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	profileID, err := uuid.Parse(event.ProfileID)
	if err != nil {
		return goerrors.New("invalid profile id for admin approval", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{"profile_id": event.ProfileID})
	}

	user, err := h.store.AdminApproveUser(ctx, profileID)
	if err != nil {
		if !IsActivationFailure(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to execute admin approval")
		}
	} else {
		resp.User = user
		resp.Approved = true
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

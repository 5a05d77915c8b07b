package registration

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// CleanupExpiredMessage triggers the expiry sweep. It carries no payload;
// schedulers dispatch it periodically or operators fire it by hand.
type CleanupExpiredMessage struct {
	OnResponse func()
}

func (e CleanupExpiredMessage) Type() string { return "registration.cleanup.expired" }

type CleanupExpiredHandler struct {
	store *Store
}

func NewCleanupExpiredHandler(store *Store) *CleanupExpiredHandler {
	return &CleanupExpiredHandler{store: store}
}

func (h *CleanupExpiredHandler) Execute(ctx context.Context, event CleanupExpiredMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during registration cleanup")
	default:
		return h.execute(ctx, event)
	}
}

func (h *CleanupExpiredHandler) execute(ctx context.Context, event CleanupExpiredMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := h.store.DeleteExpiredUsers(ctx); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "registration cleanup failed")
	}

	if event.OnResponse != nil {
		event.OnResponse()
	}

	return nil
}

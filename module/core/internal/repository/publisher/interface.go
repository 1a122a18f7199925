package publisher

import (
	"context"
	"errors"

	"github.com/zeph-kun/saas-btp/module/core/domain"
)

// EventPublisher is the notification sink the core pushes alert mutations
// and position updates through. Delivery is fire-and-forget.
type EventPublisher interface {
	Publish(ctx context.Context, e *domain.Event) error
}

// Fanout delivers every event to all sinks, attempting each one even when
// an earlier sink fails.
type Fanout []EventPublisher

var _ EventPublisher = (Fanout)(nil)

func (f Fanout) Publish(ctx context.Context, e *domain.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

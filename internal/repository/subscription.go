package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/cleancampus/internal/models"
)

// Subscription is a live view of a report query. Every relevant change
// re-delivers the full current result set on Updates.
type Subscription struct {
	updates chan []models.Report
	errs    chan error
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// Updates yields report snapshots. It is closed once the subscription ends.
func (s *Subscription) Updates() <-chan []models.Report {
	return s.updates
}

// Errors yields refresh failures. The subscription stays open and retries on
// the next change; only the most recent undelivered failure is kept.
func (s *Subscription) Errors() <-chan error {
	return s.errs
}

// Done is closed when the subscription has fully released its resources.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close cancels the subscription and waits for it to shut down. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Watch opens a live subscription for filter. The first snapshot is delivered
// immediately. The subscription ends when ctx is cancelled or Close is called.
func (r *ReportRepository) Watch(ctx context.Context, filter ReportFilter) (*Subscription, error) {
	if r.broker == nil {
		return nil, ErrLiveUnavailable
	}

	ctx, cancel := context.WithCancel(ctx)
	events, err := r.broker.Subscribe(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		updates: make(chan []models.Report, 1),
		errs:    make(chan error, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(sub.updates)
		defer cancel()

		if !r.deliver(ctx, sub, filter) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				if !filter.matches(event) {
					continue
				}
				if !r.deliver(ctx, sub, filter) {
					return
				}
			}
		}
	}()

	return sub, nil
}

// deliver pushes the latest snapshot, replacing an undelivered older one.
// It returns false once ctx is done.
func (r *ReportRepository) deliver(ctx context.Context, sub *Subscription, filter ReportFilter) bool {
	reports, err := r.List(ctx, filter)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		slog.Error("report subscription refresh failed", "action", "watch", "error", err)
		select {
		case <-sub.errs:
		default:
		}
		sub.errs <- err
		return true
	}

	select {
	case <-sub.updates:
	default:
	}
	select {
	case sub.updates <- reports:
		return true
	case <-ctx.Done():
		return false
	}
}

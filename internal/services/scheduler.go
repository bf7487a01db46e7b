package services

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"eventful/internal/domain"
)

// idleWait bounds how long the dispatch loop sleeps when no due item is
// registered.
const idleWait = time.Hour

// dueItem is one pending reminder in the in-memory registry. It carries the
// denormalized delivery fields so firing needs no store read.
type dueItem struct {
	id         string
	email      string
	eventTitle string
	due        time.Time
}

type dueHeap []*dueItem

func (h dueHeap) Len() int            { return len(h) }
func (h dueHeap) Less(i, j int) bool  { return h[i].due.Before(h[j].due) }
func (h dueHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *dueHeap) Push(x any)         { *h = append(*h, x.(*dueItem)) }
func (h *dueHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// reminderScheduler dispatches reminder emails from a single goroutine
// scanning an in-memory due-item heap. The heap is an optimization only:
// durable state is the notification row status, and the heap is rebuilt from
// scheduled rows at startup and by a periodic recovery tick, covering
// process-restart loss of registrations.
type reminderScheduler struct {
	notifRepo    domain.NotificationRepository
	email        domain.EmailService
	logger       *slog.Logger
	recoverEvery time.Duration
	now          func() time.Time

	mu      sync.Mutex
	items   dueHeap
	pending map[string]struct{}

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewReminderScheduler creates the notification scheduler. recoverEvery is
// the cadence of the recovery rescan (normally 24h).
func NewReminderScheduler(notifRepo domain.NotificationRepository, email domain.EmailService, recoverEvery time.Duration, logger *slog.Logger) domain.NotificationScheduler {
	return &reminderScheduler{
		notifRepo:    notifRepo,
		email:        email,
		logger:       logger,
		recoverEvery: recoverEvery,
		now:          time.Now,
		pending:      make(map[string]struct{}),
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

func (s *reminderScheduler) CreateNotification(ctx context.Context, n *domain.Notification) error {
	n.Status = domain.NotificationScheduled
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	s.register(n)
	return nil
}

func (s *reminderScheduler) RecoverPending(ctx context.Context) (int, error) {
	rows, err := s.notifRepo.ListByStatus(ctx, domain.NotificationScheduled)
	if err != nil {
		return 0, fmt.Errorf("list scheduled notifications: %w", err)
	}
	for _, n := range rows {
		s.register(n)
	}
	return len(rows), nil
}

func (s *reminderScheduler) Start() {
	go s.run()
}

func (s *reminderScheduler) Stop() {
	close(s.stop)
	<-s.done
}

// register adds the notification to the due registry; re-registering an id
// already pending is a no-op, which makes the recovery pass idempotent.
// Past-due items are kept and fire on the next loop iteration rather than
// being skipped: firing late is preferred over silent loss.
func (s *reminderScheduler) register(n *domain.Notification) {
	s.mu.Lock()
	if _, ok := s.pending[n.ID]; ok {
		s.mu.Unlock()
		return
	}
	s.pending[n.ID] = struct{}{}
	heap.Push(&s.items, &dueItem{
		id:         n.ID,
		email:      n.Email,
		eventTitle: n.EventTitle,
		due:        n.RemindAt,
	})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *reminderScheduler) run() {
	defer close(s.done)
	recovery := time.NewTicker(s.recoverEvery)
	defer recovery.Stop()

	for {
		timer := time.NewTimer(s.untilNext())
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
			s.fireDue()
		case <-recovery.C:
			timer.Stop()
			if n, err := s.RecoverPending(context.Background()); err != nil {
				s.logger.Warn("notification recovery failed", "err", err)
			} else {
				s.logger.Info("notification recovery pass", "registered", n)
			}
			s.fireDue()
		case <-timer.C:
			s.fireDue()
		}
	}
}

// untilNext returns how long to sleep before the earliest registered item is
// due, clamped to [0, idleWait].
func (s *reminderScheduler) untilNext() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return idleWait
	}
	d := s.items[0].due.Sub(s.now())
	if d < 0 {
		return 0
	}
	if d > idleWait {
		return idleWait
	}
	return d
}

// fireDue pops every item whose due time has arrived and dispatches it.
func (s *reminderScheduler) fireDue() {
	for {
		s.mu.Lock()
		if len(s.items) == 0 || s.items[0].due.After(s.now()) {
			s.mu.Unlock()
			return
		}
		item := heap.Pop(&s.items).(*dueItem)
		delete(s.pending, item.id)
		s.mu.Unlock()

		s.dispatch(item)
	}
}

// dispatch sends the reminder email and marks the record sent. On send
// failure the status stays scheduled so the next recovery pass retries it
// (at-least-once, not exactly-once).
func (s *reminderScheduler) dispatch(item *dueItem) {
	ctx := context.Background()
	err := s.email.SendReminder(ctx, &domain.ReminderEmailData{
		Email:      item.email,
		EventTitle: item.eventTitle,
	})
	if err != nil {
		s.logger.Warn("reminder dispatch failed", "notification_id", item.id, "err", err)
		return
	}
	if err := s.notifRepo.UpdateStatus(ctx, item.id, domain.NotificationSent); err != nil {
		s.logger.Warn("mark notification sent failed", "notification_id", item.id, "err", err)
	}
}

// pendingCount reports how many items are currently registered.
func (s *reminderScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

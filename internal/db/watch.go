package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/models"
	"github.com/goatcast/goatcast/pkg/logging"
)

// deskLister and columnLister are the slices of the repositories the hub
// needs to build snapshots. Tests supply in-memory implementations.
type deskLister interface {
	ListByUser(ctx context.Context, userID string) ([]models.Desk, error)
}

type columnLister interface {
	ListByDesk(ctx context.Context, deskID, userID string) ([]models.Column, error)
}

// DeskEvent is one snapshot pushed to a desk subscriber
type DeskEvent struct {
	Desks []models.Desk
	Err   error
}

// ColumnEvent is one snapshot pushed to a column subscriber
type ColumnEvent struct {
	Columns []models.Column
	Err     error
}

type deskSub struct {
	userID string
	events chan DeskEvent
	kick   chan struct{}
	done   chan struct{}
	once   sync.Once
}

type columnSub struct {
	deskID string
	userID string
	events chan ColumnEvent
	kick   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Hub fans desk and column snapshots out to live subscribers. Every
// repository mutation notifies the hub, which re-queries and pushes a
// fresh snapshot to each matching subscription.
type Hub struct {
	desks        deskLister
	columns      columnLister
	setupTimeout time.Duration
	logger       *zap.Logger

	mu         sync.Mutex
	deskSubs   map[*deskSub]struct{}
	columnSubs map[*columnSub]struct{}
}

// NewHub creates a watch hub. setupTimeout bounds the initial desk
// snapshot query; a subscription whose first snapshot does not arrive in
// time receives an error event and is torn down.
func NewHub(desks deskLister, columns columnLister, setupTimeout time.Duration) *Hub {
	return &Hub{
		desks:        desks,
		columns:      columns,
		setupTimeout: setupTimeout,
		logger:       logging.WithComponent("watch"),
		deskSubs:     make(map[*deskSub]struct{}),
		columnSubs:   make(map[*columnSub]struct{}),
	}
}

// DeskSubscription delivers desk snapshots until cancelled
type DeskSubscription struct {
	Events <-chan DeskEvent
	cancel func()
}

// Cancel tears the subscription down. Safe to call more than once.
func (s *DeskSubscription) Cancel() {
	s.cancel()
}

// ColumnSubscription delivers column snapshots until cancelled
type ColumnSubscription struct {
	Events <-chan ColumnEvent
	cancel func()
}

// Cancel tears the subscription down. Safe to call more than once.
func (s *ColumnSubscription) Cancel() {
	s.cancel()
}

// SubscribeDesks registers a live desk-list subscription for userID. The
// initial snapshot is pushed immediately; later snapshots follow every
// mutation of that user's desks.
func (h *Hub) SubscribeDesks(ctx context.Context, userID string) *DeskSubscription {
	sub := &deskSub{
		userID: userID,
		events: make(chan DeskEvent, 1),
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.deskSubs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.deskSubs, sub)
			h.mu.Unlock()
			close(sub.done)
		})
	}

	go h.runDeskSub(ctx, sub, cancel)

	return &DeskSubscription{Events: sub.events, cancel: cancel}
}

func (h *Hub) runDeskSub(ctx context.Context, sub *deskSub, cancel func()) {
	defer close(sub.events)

	// The initial snapshot is bounded by the setup timeout. Watchers on
	// flaky stores would otherwise hang with no event at all.
	setupCtx, setupCancel := context.WithTimeout(ctx, h.setupTimeout)
	desks, err := h.desks.ListByUser(setupCtx, sub.userID)
	setupCancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("desk watch setup timed out after %s", h.setupTimeout)
		}
		h.logger.Warn("Desk watch setup failed", zap.String("user_id", sub.userID), zap.Error(err))
		h.pushDesk(sub, DeskEvent{Err: err})
		cancel()
		return
	}
	if !h.pushDesk(sub, DeskEvent{Desks: desks}) {
		return
	}

	for {
		select {
		case <-sub.done:
			return
		case <-ctx.Done():
			cancel()
			return
		case <-sub.kick:
			desks, err := h.desks.ListByUser(ctx, sub.userID)
			if !h.pushDesk(sub, DeskEvent{Desks: desks, Err: err}) {
				return
			}
		}
	}
}

func (h *Hub) pushDesk(sub *deskSub, event DeskEvent) bool {
	select {
	case sub.events <- event:
		return true
	case <-sub.done:
		return false
	}
}

// SubscribeColumns registers a live column-list subscription for one desk
func (h *Hub) SubscribeColumns(ctx context.Context, deskID, userID string) *ColumnSubscription {
	sub := &columnSub{
		deskID: deskID,
		userID: userID,
		events: make(chan ColumnEvent, 1),
		kick:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.columnSubs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.columnSubs, sub)
			h.mu.Unlock()
			close(sub.done)
		})
	}

	go h.runColumnSub(ctx, sub, cancel)

	return &ColumnSubscription{Events: sub.events, cancel: cancel}
}

func (h *Hub) runColumnSub(ctx context.Context, sub *columnSub, cancel func()) {
	defer close(sub.events)

	columns, err := h.columns.ListByDesk(ctx, sub.deskID, sub.userID)
	if err != nil {
		h.logger.Warn("Column watch setup failed",
			zap.String("desk_id", sub.deskID), zap.Error(err))
		h.pushColumn(sub, ColumnEvent{Err: err})
		cancel()
		return
	}
	if !h.pushColumn(sub, ColumnEvent{Columns: columns}) {
		return
	}

	for {
		select {
		case <-sub.done:
			return
		case <-ctx.Done():
			cancel()
			return
		case <-sub.kick:
			columns, err := h.columns.ListByDesk(ctx, sub.deskID, sub.userID)
			if !h.pushColumn(sub, ColumnEvent{Columns: columns, Err: err}) {
				return
			}
		}
	}
}

func (h *Hub) pushColumn(sub *columnSub, event ColumnEvent) bool {
	select {
	case sub.events <- event:
		return true
	case <-sub.done:
		return false
	}
}

// NotifyDesks wakes every desk subscription belonging to userID
func (h *Hub) NotifyDesks(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.deskSubs {
		if sub.userID != userID {
			continue
		}
		select {
		case sub.kick <- struct{}{}:
		default:
		}
	}
}

// NotifyColumns wakes every column subscription watching deskID
func (h *Hub) NotifyColumns(deskID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.columnSubs {
		if sub.deskID != deskID || sub.userID != userID {
			continue
		}
		select {
		case sub.kick <- struct{}{}:
		default:
		}
	}
}

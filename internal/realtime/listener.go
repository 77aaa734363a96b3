// Package realtime turns Postgres change notifications into per-row change events.
//
// Every watched table has a trigger that publishes {"table", "op", "id"} on the
// inventory_changes channel. The listener decodes each payload and hands it to a
// Handler, which merges that single row into the application state. When the
// connection drops, notifications sent in the gap are lost, so the handler is asked
// to resync once the listener reconnects.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Channel is the NOTIFY channel the table triggers publish on.
const Channel = "inventory_changes"

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change identifies one written row.
type Change struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	ID    string `json:"id"`
}

// ParsePayload decodes a notification payload.
func ParsePayload(payload string) (Change, error) {
	var ch Change
	if err := json.Unmarshal([]byte(payload), &ch); err != nil {
		return Change{}, fmt.Errorf("decode change payload: %w", err)
	}
	switch ch.Op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		return Change{}, fmt.Errorf("unknown change op %q", ch.Op)
	}
	if ch.Table == "" || ch.ID == "" {
		return Change{}, errors.New("change payload needs table and id")
	}
	return ch, nil
}

type Handler interface {
	HandleChange(ctx context.Context, ch Change) error
	// Resync reloads everything after notifications may have been missed.
	Resync(ctx context.Context) error
}

// source is the part of *pq.Listener the loop needs.
type source interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

type Listener struct {
	src          source
	handler      Handler
	log          *zap.Logger
	pingInterval time.Duration

	// OnChange, when set, is called for every decoded change.
	OnChange func(ch Change)
}

// New connects a reconnecting pq listener to dsn.
func New(dsn string, h Handler, log *zap.Logger) *Listener {
	l := &Listener{handler: h, log: log, pingInterval: 90 * time.Second}
	l.src = pq.NewListener(dsn, 2*time.Second, time.Minute, l.onEvent)
	return l
}

func newWithSource(src source, h Handler, log *zap.Logger) *Listener {
	return &Listener{src: src, handler: h, log: log, pingInterval: 90 * time.Second}
}

func (l *Listener) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		l.log.Info("realtime listener connected")
	case pq.ListenerEventDisconnected:
		l.log.Warn("realtime listener disconnected", zap.Error(err))
	case pq.ListenerEventReconnected:
		l.log.Info("realtime listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.log.Warn("realtime listener connection attempt failed", zap.Error(err))
	}
}

// Run blocks until ctx is cancelled or the notification channel closes.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.src.Listen(Channel); err != nil {
		return fmt.Errorf("listen on %s: %w", Channel, err)
	}
	defer l.src.Close()

	ticker := time.NewTicker(l.pingInterval)
	defer ticker.Stop()

	notifications := l.src.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-notifications:
			if !ok {
				return errors.New("realtime notification channel closed")
			}
			if n == nil {
				// pq delivers nil after a reconnect.
				if err := l.handler.Resync(ctx); err != nil {
					l.log.Error("resync after reconnect failed", zap.Error(err))
				}
				continue
			}
			l.dispatch(ctx, n.Extra)
		case <-ticker.C:
			if err := l.src.Ping(); err != nil {
				l.log.Warn("realtime listener ping failed", zap.Error(err))
			}
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, payload string) {
	ch, err := ParsePayload(payload)
	if err != nil {
		l.log.Warn("ignoring malformed change notification", zap.String("payload", payload), zap.Error(err))
		return
	}
	if l.OnChange != nil {
		l.OnChange(ch)
	}
	if err := l.handler.HandleChange(ctx, ch); err != nil {
		l.log.Error("applying change failed",
			zap.String("table", ch.Table), zap.String("op", string(ch.Op)), zap.String("id", ch.ID), zap.Error(err))
	}
}

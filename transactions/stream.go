package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	sse "github.com/r3labs/sse/v2"
	"go.uber.org/zap"
)

// StreamEvent is the JSON payload pushed on the per-transaction event
// stream, discriminated by Type.
type StreamEvent struct {
	Type          string       `json:"type"`
	Status        Status       `json:"status,omitempty"`
	CurrentStatus Status       `json:"currentStatus,omitempty"`
	Transaction   *Transaction `json:"transaction,omitempty"`
	Timestamp     string       `json:"timestamp,omitempty"`
}

// Stream event discriminators.
const (
	eventInitial      = "initial"
	eventStatusUpdate = "status_update"
	eventHeartbeat    = "heartbeat"
)

// StatusCallback receives each delivered status. The transaction is nil for
// heartbeat-sourced updates.
type StatusCallback func(status Status, tx *Transaction)

// ErrorCallback receives transport errors. They are informational; the
// subscription stays up until a terminal status or an explicit Disconnect.
type ErrorCallback func(err error)

// StatusStream subscribes to a transaction's server-sent event stream and
// delivers status updates to a single registered callback. At most one
// connection is open at a time; Connect closes any previous one first. The
// owner must call Disconnect on teardown to avoid leaking the connection.
type StatusStream struct {
	baseURL string
	log     *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewStatusStream builds a stream consumer for the given backend base URL.
// log may be nil.
func NewStatusStream(baseURL string, log *zap.Logger) *StatusStream {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusStream{baseURL: baseURL, log: log}
}

// Connect opens the event stream for the given transaction reference. An
// already-open connection is closed first. onError may be nil.
func (s *StatusStream) Connect(reference string, onStatus StatusCallback, onError ErrorCallback) {
	s.Disconnect()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	client := sse.NewClient(fmt.Sprintf("%s/transactions/%s/events", s.baseURL, reference))
	client.Headers["Accept"] = "text/event-stream"
	client.Headers["Cache-Control"] = "no-cache"
	// Transport errors surface here between reconnect attempts; they never
	// tear down the subscription on their own.
	client.ReconnectNotify = func(err error, _ time.Duration) {
		s.log.Warn("event stream error", zap.String("reference", reference), zap.Error(err))
		if onError != nil {
			onError(err)
		}
	}

	s.log.Info("event stream connecting", zap.String("reference", reference))

	go func() {
		defer close(done)
		err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
			s.handleMessage(msg.Data, onStatus, cancel)
		})
		if err != nil && ctx.Err() == nil {
			s.log.Warn("event stream closed", zap.String("reference", reference), zap.Error(err))
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Disconnect closes the open connection, if any. It is idempotent and safe
// to call with no connection open.
func (s *StatusStream) Disconnect() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info("event stream disconnected")
}

// handleMessage maps one pushed event to the callback. Terminal statuses
// close the connection after the callback has been delivered.
func (s *StatusStream) handleMessage(data []byte, onStatus StatusCallback, cancel context.CancelFunc) {
	if len(data) == 0 {
		return
	}

	var ev StreamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Warn("event stream payload unparseable", zap.Error(err))
		return
	}

	switch ev.Type {
	case eventInitial:
		if ev.Transaction != nil {
			onStatus(ev.Transaction.Status, ev.Transaction)
		}

	case eventStatusUpdate:
		onStatus(ev.Status, ev.Transaction)
		if ev.Status.Terminal() {
			s.log.Info("terminal status received, closing stream", zap.String("status", string(ev.Status)))
			cancel()
		}

	case eventHeartbeat:
		// A heartbeat carrying a non-PENDING status is a status update with
		// no transaction payload.
		if ev.CurrentStatus != "" && ev.CurrentStatus != StatusPending {
			onStatus(ev.CurrentStatus, nil)
			if ev.CurrentStatus.Terminal() {
				s.log.Info("terminal status via heartbeat, closing stream", zap.String("status", string(ev.CurrentStatus)))
				cancel()
			}
		}

	default:
		s.log.Debug("ignoring unknown event type", zap.String("type", ev.Type))
	}
}

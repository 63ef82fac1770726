package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/eduelevate/pkg/mailer"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeEmailSend = "email:send"
	QueueEmail    = "email"

	sendTimeout = 30 * time.Second
)

// Dispatcher hands a rendered message to background delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, event string, msg mailer.Message)
}

// EmailPayload is the asynq task body for TypeEmailSend.
type EmailPayload struct {
	Event   string         `json:"event"`
	Message mailer.Message `json:"message"`
}

type goroutineDispatcher struct {
	mailer mailer.Mailer
	logger *zap.Logger
}

// NewGoroutineDispatcher delivers every message from its own goroutine.
func NewGoroutineDispatcher(m mailer.Mailer, logger *zap.Logger) Dispatcher {
	return &goroutineDispatcher{mailer: m, logger: logger}
}

func (d *goroutineDispatcher) Dispatch(ctx context.Context, event string, msg mailer.Message) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("email delivery panicked", zap.String("event", event), zap.Any("panic", r))
			}
		}()

		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		defer cancel()

		if err := d.mailer.Send(sendCtx, msg); err != nil {
			d.logger.Error("failed to send email",
				zap.String("event", event),
				zap.String("to", msg.To),
				zap.Error(err),
			)
			return
		}
		d.logger.Debug("email sent", zap.String("event", event), zap.String("to", msg.To))
	}()
}

// TaskEnqueuer is the subset of *asynq.Client used for queueing.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type queueDispatcher struct {
	client   TaskEnqueuer
	fallback Dispatcher
	logger   *zap.Logger
}

// NewQueueDispatcher enqueues messages for cmd/worker. If the queue is unreachable the
// message goes to fallback instead.
func NewQueueDispatcher(client TaskEnqueuer, fallback Dispatcher, logger *zap.Logger) Dispatcher {
	return &queueDispatcher{client: client, fallback: fallback, logger: logger}
}

func (d *queueDispatcher) Dispatch(ctx context.Context, event string, msg mailer.Message) {
	payload, err := json.Marshal(EmailPayload{Event: event, Message: msg})
	if err != nil {
		d.logger.Error("failed to encode email task", zap.String("event", event), zap.Error(err))
		return
	}

	task := asynq.NewTask(TypeEmailSend, payload, asynq.MaxRetry(5), asynq.Timeout(sendTimeout))
	if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue(QueueEmail)); err != nil {
		d.logger.Warn("failed to enqueue email, sending inline", zap.String("event", event), zap.Error(err))
		d.fallback.Dispatch(ctx, event, msg)
	}
}

// NewEmailTaskHandler returns the asynq handler that delivers queued emails.
func NewEmailTaskHandler(m mailer.Mailer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p EmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode email payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := m.Send(ctx, p.Message); err != nil {
			logger.Error("failed to send queued email",
				zap.String("event", p.Event),
				zap.String("to", p.Message.To),
				zap.Error(err),
			)
			return err
		}

		logger.Info("queued email sent", zap.String("event", p.Event), zap.String("to", p.Message.To))
		return nil
	}
}

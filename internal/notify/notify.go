// Package notify delivers fire-and-forget lifecycle events through a River
// background job. Events are enqueued with InsertTx inside the same database
// transaction as the state change that caused them, so an event exists if and
// only if the transition committed. Delivery is at-least-once.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
)

const (
	EventApplicationDecided = "application.decided"
	EventOrderCompleted     = "order.completed"
	EventReviewCreated      = "review.created"
)

type NotificationArgs struct {
	Event         string     `json:"event"`
	RecipientID   uuid.UUID  `json:"recipient_id"`
	ActorID       uuid.UUID  `json:"actor_id"`
	JobID         *uuid.UUID `json:"job_id,omitempty"`
	ApplicationID *uuid.UUID `json:"application_id,omitempty"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	Detail        string     `json:"detail,omitempty"`
}

func (NotificationArgs) Kind() string { return "notification" }

// InsertTxFunc enqueues a notification within the given transaction. Provided
// by main using river.Client.InsertTx.
type InsertTxFunc func(ctx context.Context, tx pgx.Tx, args NotificationArgs) error

type Worker struct {
	river.WorkerDefaults[NotificationArgs]
	webhookURL string
	httpClient *http.Client
	log        *slog.Logger
}

// NewWorker creates the notification worker. With an empty webhookURL the
// worker logs events instead of delivering them over HTTP.
func NewWorker(webhookURL string, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

func (w *Worker) Work(ctx context.Context, job *river.Job[NotificationArgs]) error {
	args := job.Args

	if w.webhookURL == "" {
		w.log.Info("notification",
			"event", args.Event,
			"recipient_id", args.RecipientID,
			"actor_id", args.ActorID,
			"detail", args.Detail)
		return nil
	}

	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

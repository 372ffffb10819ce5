// Package store bootstraps the Postgres schema. The unique constraints here
// are the last line of defense for every exactly-once invariant: one live
// application per (worker, job), one order per application, one earning per
// order, one review per order.
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		email         text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		display_name  text NOT NULL,
		role          text NOT NULL CHECK (role IN ('worker', 'customer')),
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id                uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		customer_id       uuid NOT NULL REFERENCES users(id),
		title             text NOT NULL,
		description       text NOT NULL,
		category          text NOT NULL DEFAULT '',
		location          text NOT NULL DEFAULT '',
		hourly_rate_cents bigint NOT NULL CHECK (hourly_rate_cents > 0),
		status            text NOT NULL DEFAULT 'OPEN',
		created_at        timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS job_applications (
		id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		job_id       uuid NOT NULL REFERENCES jobs(id),
		worker_id    uuid NOT NULL REFERENCES users(id),
		status       text NOT NULL DEFAULT 'PENDING',
		applied_date timestamptz NOT NULL DEFAULT now(),
		updated_at   timestamptz NOT NULL DEFAULT now()
	)`,
	// Withdrawn applications drop out of the index so the worker can apply again.
	`CREATE UNIQUE INDEX IF NOT EXISTS job_applications_live_worker_job
		ON job_applications (worker_id, job_id) WHERE status <> 'WITHDRAWN'`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                 uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		job_application_id uuid NOT NULL UNIQUE REFERENCES job_applications(id),
		job_id             uuid NOT NULL REFERENCES jobs(id),
		worker_id          uuid NOT NULL REFERENCES users(id),
		status             text NOT NULL,
		accepted_date      timestamptz NOT NULL DEFAULT now(),
		started_date       timestamptz,
		completed_date     timestamptz,
		updated_at         timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS earnings (
		id                 uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id           uuid NOT NULL UNIQUE REFERENCES orders(id),
		job_application_id uuid NOT NULL REFERENCES job_applications(id),
		job_id             uuid NOT NULL REFERENCES jobs(id),
		worker_id          uuid NOT NULL REFERENCES users(id),
		customer_id        uuid NOT NULL REFERENCES users(id),
		amount_cents       bigint NOT NULL,
		earned_date        timestamptz NOT NULL DEFAULT now(),
		status             text NOT NULL DEFAULT 'COMPLETED',
		payment_gateway_id text
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		order_id     uuid NOT NULL UNIQUE REFERENCES orders(id),
		reviewer_id  uuid NOT NULL REFERENCES users(id),
		rating       int NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment      text NOT NULL,
		created_at   timestamptz NOT NULL DEFAULT now(),
		worker_reply text,
		replied_at   timestamptz
	)`,
}

// Migrate applies the application schema idempotently. River's own tables are
// migrated separately by rivermigrate in main.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

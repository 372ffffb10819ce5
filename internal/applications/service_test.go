package applications

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gigline/backend/internal/apperr"
	"github.com/gigline/backend/internal/models"
	"github.com/gigline/backend/internal/notify"
)

// ---------------------------------------------------------------------------
// In-memory fakes. noopTx satisfies pgx.Tx; only Commit/Rollback are called.
// ---------------------------------------------------------------------------

type noopTx struct{}

func (noopTx) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }
func (noopTx) Commit(context.Context) error          { return nil }
func (noopTx) Rollback(context.Context) error        { return nil }
func (noopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (noopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (noopTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (noopTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (noopTx) Conn() *pgx.Conn { return nil }

type mockPool struct{}

func (mockPool) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }

// --- Store fake: enforces the live (worker, job) uniqueness like the index ---

type fakeStore struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*models.JobApplication
}

func newFakeStore() *fakeStore {
	return &fakeStore{apps: make(map[uuid.UUID]*models.JobApplication)}
}

func (f *fakeStore) Insert(_ context.Context, jobID, workerID uuid.UUID) (*models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.JobID == jobID && a.WorkerID == workerID && a.Status != models.ApplicationStatusWithdrawn {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "job_applications_live_worker_job"}
		}
	}
	a := &models.JobApplication{
		ID:       uuid.New(),
		JobID:    jobID,
		WorkerID: workerID,
		Status:   models.ApplicationStatusPending,
	}
	f.apps[a.ID] = a
	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return nil, apperr.NotFound("application")
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _ pgx.Tx, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps[id].Status = status
	return nil
}

func (f *fakeStore) ListByWorker(_ context.Context, workerID uuid.UUID) ([]*models.JobApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*models.JobApplication
	for _, a := range f.apps {
		if a.WorkerID == workerID {
			cp := *a
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (f *fakeStore) status(id uuid.UUID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.apps[id].Status
}

// --- Job lookup fake ---

type fakeJobs struct {
	jobs map[uuid.UUID]*models.Job
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job")
	}
	return j, nil
}

// --- Notification recorder ---

type notifyRecorder struct {
	events []notify.NotificationArgs
}

func (n *notifyRecorder) insert(_ context.Context, _ pgx.Tx, args notify.NotificationArgs) error {
	n.events = append(n.events, args)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService() (*Service, *fakeStore, *fakeJobs, *notifyRecorder) {
	store := newFakeStore()
	jobs := &fakeJobs{jobs: make(map[uuid.UUID]*models.Job)}
	rec := &notifyRecorder{}
	svc := NewService(mockPool{}, store, jobs, rec.insert, nil)
	return svc, store, jobs, rec
}

func seedJob(jobs *fakeJobs, customerID uuid.UUID) *models.Job {
	j := &models.Job{ID: uuid.New(), CustomerID: customerID, Status: models.JobStatusOpen, HourlyRateCents: 2500}
	jobs.jobs[j.ID] = j
	return j
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSubmit_DuplicateIsConflict(t *testing.T) {
	svc, _, jobs, _ := newTestService()
	worker := uuid.New()
	job := seedJob(jobs, uuid.New())

	ctx := context.Background()
	app, err := svc.Submit(ctx, worker, job.ID)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if app.Status != models.ApplicationStatusPending {
		t.Errorf("new application status: got %s, want PENDING", app.Status)
	}

	if _, err := svc.Submit(ctx, worker, job.ID); apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("duplicate submit: got %v, want Conflict", err)
	}
}

func TestSubmit_AfterWithdrawAllowed(t *testing.T) {
	svc, _, jobs, _ := newTestService()
	worker := uuid.New()
	job := seedJob(jobs, uuid.New())

	ctx := context.Background()
	app, err := svc.Submit(ctx, worker, job.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Withdraw(ctx, app.ID, worker); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := svc.Submit(ctx, worker, job.ID); err != nil {
		t.Errorf("resubmit after withdrawal should succeed, got %v", err)
	}
}

func TestSubmit_UnknownJob(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Submit(context.Background(), uuid.New(), uuid.New())
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("got %v, want NotFound", err)
	}
}

func TestDecide_Authorization(t *testing.T) {
	svc, _, jobs, _ := newTestService()
	customer := uuid.New()
	job := seedJob(jobs, customer)

	ctx := context.Background()
	app, err := svc.Submit(ctx, uuid.New(), job.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = svc.Decide(ctx, app.ID, uuid.New(), models.ApplicationStatusApproved)
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("stranger deciding: got %v, want Unauthorized", err)
	}

	decided, err := svc.Decide(ctx, app.ID, customer, models.ApplicationStatusApproved)
	if err != nil {
		t.Fatalf("owner deciding: %v", err)
	}
	if decided.Status != models.ApplicationStatusApproved {
		t.Errorf("status after approve: got %s", decided.Status)
	}
}

func TestDecide_OnlyPending(t *testing.T) {
	svc, _, jobs, _ := newTestService()
	customer := uuid.New()
	job := seedJob(jobs, customer)

	ctx := context.Background()
	app, _ := svc.Submit(ctx, uuid.New(), job.ID)
	if _, err := svc.Decide(ctx, app.ID, customer, models.ApplicationStatusRejected); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	_, err := svc.Decide(ctx, app.ID, customer, models.ApplicationStatusApproved)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("second decision: got %v, want InvalidState", err)
	}
}

func TestDecide_InvalidStatusValue(t *testing.T) {
	svc, _, jobs, _ := newTestService()
	job := seedJob(jobs, uuid.New())
	app, _ := svc.Submit(context.Background(), uuid.New(), job.ID)

	_, err := svc.Decide(context.Background(), app.ID, job.CustomerID, "MAYBE")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("got %v, want Validation", err)
	}
}

func TestDecide_NotifiesWorker(t *testing.T) {
	svc, _, jobs, rec := newTestService()
	customer := uuid.New()
	worker := uuid.New()
	job := seedJob(jobs, customer)

	ctx := context.Background()
	app, _ := svc.Submit(ctx, worker, job.ID)
	if _, err := svc.Decide(ctx, app.ID, customer, models.ApplicationStatusApproved); err != nil {
		t.Fatalf("decide: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Event != notify.EventApplicationDecided {
		t.Errorf("event: got %q", ev.Event)
	}
	if ev.RecipientID != worker {
		t.Error("notification should go to the applicant worker")
	}
	if ev.Detail != models.ApplicationStatusApproved {
		t.Errorf("detail: got %q, want APPROVED", ev.Detail)
	}
}

func TestWithdraw_OnlyApplicant(t *testing.T) {
	svc, store, jobs, _ := newTestService()
	worker := uuid.New()
	job := seedJob(jobs, uuid.New())

	ctx := context.Background()
	app, _ := svc.Submit(ctx, worker, job.ID)

	if err := svc.Withdraw(ctx, app.ID, uuid.New()); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Fatalf("stranger withdrawing: got %v, want Unauthorized", err)
	}
	if got := store.status(app.ID); got != models.ApplicationStatusPending {
		t.Errorf("status must be unchanged after failed withdraw, got %s", got)
	}

	if err := svc.Withdraw(ctx, app.ID, worker); err != nil {
		t.Fatalf("applicant withdrawing: %v", err)
	}
	if got := store.status(app.ID); got != models.ApplicationStatusWithdrawn {
		t.Errorf("status after withdraw: got %s", got)
	}

	if err := svc.Withdraw(ctx, app.ID, worker); apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("double withdraw: got %v, want InvalidState", err)
	}
}

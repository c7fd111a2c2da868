//go:build integration

package request_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"irdesk/internal/request/models"
	eventstore "irdesk/internal/request/store/event"
	requeststore "irdesk/internal/request/store/request"
	"irdesk/pkg/platform/sentinel"
	"irdesk/pkg/platform/tx"
	"irdesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *requeststore.PostgresStore
	events   *eventstore.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = requeststore.NewPostgres(s.postgres.DB)
	s.events = eventstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "request_events", "request_comments", "attachments", "notifications", "requests")
	s.Require().NoError(err)
}

func newTestRequest(status models.Status) *models.Request {
	now := time.Now().UTC().Truncate(time.Microsecond)
	amount := 250000.0
	currency := "EUR"
	return &models.Request{
		ID:         uuid.New(),
		Number:     "IR-2026-" + uuid.NewString()[:8],
		InvestorID: "inv-" + uuid.NewString()[:8],
		Status:     status,
		Type:       models.TypeBuy,
		Amount:     &amount,
		Currency:   &currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()
	req := newTestRequest(models.StatusSubmitted)

	s.Require().NoError(s.store.Create(ctx, req))

	got, err := s.store.GetByID(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(req.Number, got.Number)
	s.Equal(req.InvestorID, got.InvestorID)
	s.Equal(models.StatusSubmitted, got.Status)
	s.Require().NotNil(got.Amount)
	s.Equal(*req.Amount, *got.Amount)
	s.Nil(got.Settlement.StartedAt)

	_, err = s.store.GetByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentStatusFlip verifies the race guard: N racing transitions from
// the same expected status produce exactly one winner.
func (s *PostgresStoreSuite) TestConcurrentStatusFlip() {
	ctx := context.Background()
	req := newTestRequest(models.StatusSubmitted)
	s.Require().NoError(s.store.Create(ctx, req))

	const goroutines = 30
	var wg sync.WaitGroup
	var wins, conflicts atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.UpdateStatus(ctx, req.ID, models.StatusSubmitted, models.StatusScreening, time.Now().UTC())
			if err == nil {
				wins.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load(), "exactly one flip should win")
	s.Equal(int32(goroutines-1), conflicts.Load(), "all others should conflict")

	got, err := s.store.GetByID(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusScreening, got.Status)
}

// TestTransactionRollback verifies that a failed unit of work leaves neither
// the status flip nor the event behind.
func (s *PostgresStoreSuite) TestTransactionRollback() {
	ctx := context.Background()
	req := newTestRequest(models.StatusSubmitted)
	s.Require().NoError(s.store.Create(ctx, req))

	runner := &tx.SQLRunner{DB: s.postgres.DB}
	boom := errors.New("downstream failure")

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.UpdateStatus(ctx, req.ID, models.StatusSubmitted, models.StatusScreening, time.Now().UTC()); err != nil {
			return err
		}
		from := models.StatusSubmitted
		if err := s.events.Insert(ctx, models.Event{
			ID:         uuid.New(),
			RequestID:  req.ID,
			FromStatus: &from,
			ToStatus:   models.StatusScreening,
			ActorID:    "admin-7",
			CreatedAt:  time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.GetByID(ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusSubmitted, got.Status, "rolled back flip must not be visible")

	events, err := s.events.ListByRequest(ctx, req.ID)
	s.Require().NoError(err)
	s.Empty(events, "rolled back event must not be visible")
}

func (s *PostgresStoreSuite) TestUpdateSettlementPatchSemantics() {
	ctx := context.Background()
	req := newTestRequest(models.StatusSettling)
	s.Require().NoError(s.store.Create(ctx, req))

	started := time.Now().UTC().Truncate(time.Microsecond)
	ref := "WIRE-2026-0099"
	s.Require().NoError(s.store.UpdateSettlement(ctx, req.ID,
		models.Settlement{StartedAt: &started, Reference: &ref}, started))

	completed := started.Add(time.Hour)
	s.Require().NoError(s.store.UpdateSettlement(ctx, req.ID,
		models.Settlement{CompletedAt: &completed}, completed))

	got, err := s.store.GetByID(ctx, req.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Settlement.StartedAt)
	s.Equal(started, got.Settlement.StartedAt.UTC(), "completion patch must not clear the start stamp")
	s.Require().NotNil(got.Settlement.CompletedAt)
	s.Equal(completed, got.Settlement.CompletedAt.UTC())
	s.Require().NotNil(got.Settlement.Reference)
	s.Equal(ref, *got.Settlement.Reference)

	err = s.store.UpdateSettlement(ctx, uuid.New(), models.Settlement{Reference: &ref}, completed)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

//go:build integration

package computation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/models"
	"sentencer/internal/sentencing/store/computation"
	"sentencer/pkg/platform/sentinel"
	"sentencer/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *computation.PostgresStore
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
	s.store = computation.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "computations")
	s.Require().NoError(err)
}

func newTestComputation(category sentencing.CrimeCategory, createdAt time.Time) *models.Computation {
	amount := 5500.0
	return &models.Computation{
		ID:          uuid.New(),
		Fingerprint: uuid.NewString(),
		Input: sentencing.CaseInput{
			Category: category,
			Amount:   &amount,
		},
		Outcome: sentencing.Outcome{
			Status:   sentencing.StatusComputed,
			Category: category,
			RuleSet:  string(category),
			Result: sentencing.SentenceResult{
				FinalMonths: 10,
				BaseMonths:  10,
				Steps:       []string{"base: 10 months", "tier2 result: 10 months"},
			},
			Width: 8,
			Range: sentencing.SentenceRange{Min: 6, Max: 14},
		},
		CreatedAt: createdAt,
	}
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	rec := newTestComputation(sentencing.CategoryFraud, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Save(ctx, rec))

	found, err := s.store.FindByID(ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec.Fingerprint, found.Fingerprint)
	s.Equal(rec.Outcome.Range, found.Outcome.Range)
	s.Equal(rec.Outcome.Result.Steps, found.Outcome.Result.Steps)
	s.True(rec.CreatedAt.Equal(found.CreatedAt))

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListRecent() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.Require().NoError(s.store.Save(ctx, newTestComputation(sentencing.CategoryFraud, now)))
	s.Require().NoError(s.store.Save(ctx, newTestComputation(sentencing.CategoryTheft, now.Add(time.Second))))
	s.Require().NoError(s.store.Save(ctx, newTestComputation(sentencing.CategoryEmbezzlement, now.Add(2*time.Second))))

	recent, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(sentencing.CategoryEmbezzlement, recent[0].Outcome.Category)
	s.Equal(sentencing.CategoryTheft, recent[1].Outcome.Category)
}

// TestConcurrentSaveSameID verifies upserts on one ID leave exactly one row.
func (s *PostgresStoreSuite) TestConcurrentSaveSameID() {
	ctx := context.Background()
	rec := newTestComputation(sentencing.CategoryTheft, time.Now().UTC())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cp := *rec
			s.NoError(s.store.Save(ctx, &cp))
		}()
	}
	wg.Wait()

	recent, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Len(recent, 1)
}

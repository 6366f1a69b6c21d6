package computation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sentencer/internal/platform/sqlite"
	"sentencer/internal/sentencing"
	"sentencer/internal/sentencing/models"
	"sentencer/internal/sentencing/ports"
	"sentencer/pkg/platform/sentinel"
)

// StoreSuite runs the same contract against every store backed by a local
// engine.
type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) ports.ComputationStore
	store    ports.ComputationStore
	ctx      context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) ports.ComputationStore {
		return NewInMemory()
	}})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(t *testing.T) ports.ComputationStore {
		db, err := sqlite.Open(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })
		return NewSQLite(db)
	}})
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore(s.T())
	s.ctx = context.Background()
}

func newRecord(createdAt time.Time) *models.Computation {
	amount := 50000.0
	return &models.Computation{
		ID:          uuid.New(),
		Fingerprint: "fp-" + uuid.NewString(),
		RequestID:   "req-1",
		Input: sentencing.CaseInput{
			Category:     sentencing.CategoryTheft,
			Jurisdiction: "深圳",
			Amount:       &amount,
			Tier1:        []sentencing.Factor{{Name: "未成年", Ratio: 0.5}},
		},
		Outcome: sentencing.Outcome{
			Status:   sentencing.StatusComputed,
			Category: sentencing.CategoryTheft,
			RuleSet:  "theft",
			Bracket:  sentencing.BracketLarge,
			Result: sentencing.SentenceResult{
				FinalMonths: 14.5,
				BaseMonths:  29,
				Steps:       []string{"base: 29 months", "tier1 result: 14.5 months"},
			},
			Width: 6,
			Range: sentencing.SentenceRange{Min: 12, Max: 18},
		},
		CreatedAt: createdAt,
	}
}

// =============================================================================
// Save / FindByID
// =============================================================================

func (s *StoreSuite) TestSaveAndFind() {
	s.Run("round trips a record", func() {
		rec := newRecord(time.Now().UTC())
		s.Require().NoError(s.store.Save(s.ctx, rec))

		found, err := s.store.FindByID(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(rec.ID, found.ID)
		s.Equal(rec.Fingerprint, found.Fingerprint)
		s.Equal(rec.RequestID, found.RequestID)
		s.Equal(rec.Input.Jurisdiction, found.Input.Jurisdiction)
		s.Require().NotNil(found.Input.Amount)
		s.InDelta(50000.0, *found.Input.Amount, 0)
		s.Equal(rec.Input.Tier1, found.Input.Tier1)
		s.Equal(rec.Outcome.Range, found.Outcome.Range)
		s.Equal(rec.Outcome.Result.Steps, found.Outcome.Result.Steps)
		s.True(rec.CreatedAt.Equal(found.CreatedAt))
	})

	s.Run("save replaces a record with the same ID", func() {
		rec := newRecord(time.Now().UTC())
		s.Require().NoError(s.store.Save(s.ctx, rec))

		rec.Outcome.Status = sentencing.StatusDefaulted
		s.Require().NoError(s.store.Save(s.ctx, rec))

		found, err := s.store.FindByID(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(sentencing.StatusDefaulted, found.Outcome.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// =============================================================================
// ListRecent
// =============================================================================

func (s *StoreSuite) TestListRecent() {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := range 3 {
		rec := newRecord(base.Add(time.Duration(i) * time.Minute))
		ids = append(ids, rec.ID)
		s.Require().NoError(s.store.Save(s.ctx, rec))
	}

	recent, err := s.store.ListRecent(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(ids[2], recent[0].ID, "newest first")
	s.Equal(ids[1], recent[1].ID)
}

//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tempo/internal/schedule/models"
	"tempo/internal/schedule/store"
	id "tempo/pkg/domain"
	"tempo/pkg/platform/sentinel"
	"tempo/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "schedule_definitions", "contracts"))
}

func (s *PostgresStoreSuite) TestScheduleRoundTrip() {
	ctx := context.Background()
	breakStart := models.ClockTime{Hour: 13}
	breakEnd := models.ClockTime{Hour: 13, Minute: 45}
	def := models.ScheduleDefinition{
		ID:                id.ScheduleID(uuid.New()),
		SessionID:         id.SessionID(uuid.New()),
		ContractID:        id.ContractID(uuid.New()),
		ShiftDate:         time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		Start:             models.ClockTime{Hour: 22},
		End:               models.ClockTime{Hour: 6},
		PlannedBreakStart: &breakStart,
		PlannedBreakEnd:   &breakEnd,
	}
	s.Require().NoError(s.store.SaveSchedule(ctx, def))

	got, err := s.store.FindBySession(ctx, def.SessionID)
	s.Require().NoError(err)
	s.Equal(def.Start, got.Start)
	s.Equal(def.End, got.End)
	s.Equal(breakEnd, *got.PlannedBreakEnd)
	s.True(def.ShiftDate.Equal(got.ShiftDate))

	other := def
	other.ID = id.ScheduleID(uuid.New())
	s.ErrorIs(s.store.SaveSchedule(ctx, other), sentinel.ErrConflict)

	batch, err := s.store.ForSessions(ctx, []id.SessionID{def.SessionID, id.SessionID(uuid.New())})
	s.Require().NoError(err)
	s.Len(batch, 1)
}

func (s *PostgresStoreSuite) TestContractAssignment() {
	ctx := context.Background()
	contract := models.Contract{ID: id.ContractID(uuid.New())}
	s.Require().NoError(s.store.SaveContract(ctx, contract))

	got, err := s.store.FindContract(ctx, contract.ID)
	s.Require().NoError(err)
	s.Nil(got.EmployeeID)

	employee := id.EmployeeID(uuid.New())
	contract.EmployeeID = &employee
	s.Require().NoError(s.store.SaveContract(ctx, contract))
	got, err = s.store.FindContract(ctx, contract.ID)
	s.Require().NoError(err)
	s.Equal(employee, *got.EmployeeID)
}

//go:build integration

package resolver_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	attendancemodels "tempo/internal/attendance/models"
	"tempo/internal/schedule/models"
	"tempo/internal/schedule/resolver"
	"tempo/internal/schedule/store"
	id "tempo/pkg/domain"
	"tempo/pkg/testutil/containers"
)

type countingResolver struct {
	next  resolver.Resolver
	calls int
}

func (c *countingResolver) ResolveEmployee(ctx context.Context, ref attendancemodels.ScheduleRef) (id.EmployeeID, bool) {
	c.calls++
	return c.next.ResolveEmployee(ctx, ref)
}

type CachedResolverSuite struct {
	suite.Suite
	redis     *containers.RedisContainer
	contracts *store.InMemoryStore
	counter   *countingResolver
	cached    *resolver.Cached
}

func TestCachedResolverSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedResolverSuite))
}

func (s *CachedResolverSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *CachedResolverSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.contracts = store.NewInMemory()
	s.counter = &countingResolver{next: resolver.NewDirectory(s.contracts, nil)}
	s.cached = resolver.NewCached(s.redis.Client, s.counter, time.Minute, nil)
}

func (s *CachedResolverSuite) TestSecondLookupServedFromCache() {
	ctx := context.Background()
	employee := id.EmployeeID(uuid.New())
	contract := id.ContractID(uuid.New())
	s.Require().NoError(s.contracts.SaveContract(ctx, models.Contract{ID: contract, EmployeeID: &employee}))
	ref := attendancemodels.ScheduleRef{ContractID: contract}

	for range 3 {
		got, ok := s.cached.ResolveEmployee(ctx, ref)
		s.True(ok)
		s.Equal(employee, got)
	}
	s.Equal(1, s.counter.calls)
}

func (s *CachedResolverSuite) TestAbsenceIsCachedAndInvalidated() {
	ctx := context.Background()
	contract := id.ContractID(uuid.New())
	ref := attendancemodels.ScheduleRef{ContractID: contract}

	_, ok := s.cached.ResolveEmployee(ctx, ref)
	s.False(ok)
	_, ok = s.cached.ResolveEmployee(ctx, ref)
	s.False(ok)
	s.Equal(1, s.counter.calls)

	employee := id.EmployeeID(uuid.New())
	s.Require().NoError(s.contracts.SaveContract(ctx, models.Contract{ID: contract, EmployeeID: &employee}))
	s.Require().NoError(s.cached.Invalidate(ctx, contract))

	got, ok := s.cached.ResolveEmployee(ctx, ref)
	s.True(ok)
	s.Equal(employee, got)
	s.Equal(2, s.counter.calls)
}

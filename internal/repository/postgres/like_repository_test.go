package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/repository/postgres"
	"github.com/place-microservice/internal/repository/postgres/testhelpers"
)

type LikeRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   *postgres.LikeRepository
	ctx    context.Context
}

func (s *LikeRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.Require().NoError(testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations"))
	s.repo = testhelpers.NewLikeRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *LikeRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *LikeRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *LikeRepositoryTestSuite) TestInsert_Idempotent() {
	s.NoError(s.repo.Insert(s.ctx, &domain.Like{UserID: 1, PlaceID: "p", PlaceName: "도봉산"}))
	s.NoError(s.repo.Insert(s.ctx, &domain.Like{UserID: 1, PlaceID: "p", PlaceName: "도봉산"}))

	n, err := testhelpers.CountRows(s.testDB.DB.DB, "place_likes", "user_id = $1 AND place_id = $2", 1, "p")
	s.NoError(err)
	s.Equal(1, n)

	exists, err := s.repo.Exists(s.ctx, 1, "p")
	s.NoError(err)
	s.True(exists)
}

func (s *LikeRepositoryTestSuite) TestInsert_Concurrent() {
	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.repo.Insert(context.Background(), &domain.Like{UserID: 2, PlaceID: "race"})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}

	n, err := testhelpers.CountRows(s.testDB.DB.DB, "place_likes", "user_id = $1", 2)
	s.NoError(err)
	s.Equal(1, n)
}

func (s *LikeRepositoryTestSuite) TestDelete() {
	s.Require().NoError(s.repo.Insert(s.ctx, &domain.Like{UserID: 1, PlaceID: "p"}))

	removed, err := s.repo.Delete(s.ctx, 1, "p")
	s.NoError(err)
	s.True(removed)

	removed, err = s.repo.Delete(s.ctx, 1, "p")
	s.NoError(err)
	s.False(removed)
}

func (s *LikeRepositoryTestSuite) TestListByUser_Order() {
	for _, id := range []string{"a", "b", "c"} {
		s.Require().NoError(s.repo.Insert(s.ctx, &domain.Like{UserID: 5, PlaceID: id}))
		time.Sleep(5 * time.Millisecond)
	}

	newest, err := s.repo.ListByUser(s.ctx, 5, 2, false)
	s.NoError(err)
	s.Require().Len(newest, 2)
	s.Equal("c", newest[0].PlaceID)
	s.Equal("b", newest[1].PlaceID)

	oldest, err := s.repo.ListByUser(s.ctx, 5, 10, true)
	s.NoError(err)
	s.Require().Len(oldest, 3)
	s.Equal("a", oldest[0].PlaceID)
}

func TestLikeRepositorySuite(t *testing.T) {
	suite.Run(t, new(LikeRepositoryTestSuite))
}

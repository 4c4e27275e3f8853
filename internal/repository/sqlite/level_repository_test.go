package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dfarias/linguaflash/internal/db"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository"
	"github.com/dfarias/linguaflash/internal/repository/sqlite"
	"github.com/dfarias/linguaflash/internal/testutil"
)

type LevelRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.LevelRepository
}

func (s *LevelRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewLevelRepository(s.db.DB)
}

func (s *LevelRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LevelRepositorySuite) TestListSeededLevels() {
	levels, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(levels, 4)

	for i, l := range levels {
		s.Assert().Equal(i+1, l.SortOrder, "levels must come back in sort order")
		s.Assert().Equal(70, l.RequiredScore)
	}
	s.Assert().Equal("Beginner", levels[0].Name)
}

func (s *LevelRepositorySuite) TestUpsertUserLevelKeepsOneRow() {
	ctx := context.Background()
	levels, err := s.repo.List(ctx)
	s.Require().NoError(err)
	levelID := levels[0].ID

	first, err := s.repo.UpsertUserLevel(ctx, models.UserLevel{
		UserID: "user-a", LevelID: levelID, Completed: false, Score: 40, Accuracy: 40,
	})
	s.Require().NoError(err)

	second, err := s.repo.UpsertUserLevel(ctx, models.UserLevel{
		UserID: "user-a", LevelID: levelID, Completed: true, Score: 90, Accuracy: 90,
	})
	s.Require().NoError(err)
	s.Assert().Equal(first.ID, second.ID)
	s.Assert().True(second.Completed)
	s.Assert().Equal(90, second.Score)

	var n int
	err = s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM user_levels WHERE user_id = ? AND level_id = ?
`, "user-a", levelID).Scan(&n)
	s.Require().NoError(err)
	s.Assert().Equal(1, n)
}

func (s *LevelRepositorySuite) TestUserLevelsScopedToUser() {
	ctx := context.Background()
	levels, err := s.repo.List(ctx)
	s.Require().NoError(err)

	_, err = s.repo.UpsertUserLevel(ctx, models.UserLevel{UserID: "user-a", LevelID: levels[0].ID, Score: 80, Completed: true})
	s.Require().NoError(err)
	_, err = s.repo.UpsertUserLevel(ctx, models.UserLevel{UserID: "user-b", LevelID: levels[1].ID, Score: 60})
	s.Require().NoError(err)

	got, err := s.repo.UserLevels(ctx, "user-a")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Assert().Equal("user-a", got[0].UserID)
	s.Assert().Equal(levels[0].ID, got[0].LevelID)
}

func (s *LevelRepositorySuite) TestGetMissing() {
	level, err := s.repo.Get(context.Background(), 999999)
	s.Require().NoError(err)
	s.Assert().Nil(level)
}

func TestLevelRepositorySuite(t *testing.T) {
	suite.Run(t, new(LevelRepositorySuite))
}

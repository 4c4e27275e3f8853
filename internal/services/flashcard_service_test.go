package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dfarias/linguaflash/internal/db"
	apperrors "github.com/dfarias/linguaflash/internal/errors"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository/sqlite"
	"github.com/dfarias/linguaflash/internal/services"
	"github.com/dfarias/linguaflash/internal/session"
	"github.com/dfarias/linguaflash/internal/testutil"
)

type FlashcardServiceSuite struct {
	suite.Suite
	db      *db.DB
	service services.FlashcardService
}

func (s *FlashcardServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	engine := testutil.NewTestEngine(s.T(), s.db)
	s.service = services.NewFlashcardService(engine, sqlite.NewFlashcardRepository(s.db.DB))
}

func (s *FlashcardServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *FlashcardServiceSuite) TestListFlashcards_SeededAndOrdered() {
	cards, err := s.service.ListFlashcards(context.Background(), session.Session{UserID: "user-a"}, models.FlashcardFilter{})
	s.Require().NoError(err)
	s.Require().Len(cards, 12)
	for i := 1; i < len(cards); i++ {
		s.Assert().Less(cards[i-1].ID, cards[i].ID, "cards must come back in id order")
	}
}

func (s *FlashcardServiceSuite) TestListFlashcards_CategoryFilter() {
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}

	all, err := s.service.ListFlashcards(ctx, sess, models.FlashcardFilter{})
	s.Require().NoError(err)
	s.Require().NotEmpty(all)

	filtered, err := s.service.ListFlashcards(ctx, sess, models.FlashcardFilter{Category: all[0].Category})
	s.Require().NoError(err)
	s.Require().NotEmpty(filtered)
	for _, c := range filtered {
		s.Assert().Equal(all[0].Category, c.Category)
	}
	s.Assert().Less(len(filtered), len(all))
}

func (s *FlashcardServiceSuite) TestListFlashcards_Unauthenticated() {
	_, err := s.service.ListFlashcards(context.Background(), session.Anonymous, models.FlashcardFilter{})
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeAccessDenied))
}

func (s *FlashcardServiceSuite) TestGetFlashcard() {
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}

	all, err := s.service.ListFlashcards(ctx, sess, models.FlashcardFilter{})
	s.Require().NoError(err)
	s.Require().NotEmpty(all)

	card, err := s.service.GetFlashcard(ctx, sess, all[0].ID)
	s.Require().NoError(err)
	s.Assert().Equal(all[0].Word, card.Word)
}

func (s *FlashcardServiceSuite) TestGetFlashcard_Missing() {
	_, err := s.service.GetFlashcard(context.Background(), session.Session{UserID: "user-a"}, 999999)
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestFlashcardServiceSuite(t *testing.T) {
	suite.Run(t, new(FlashcardServiceSuite))
}

package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/dfarias/linguaflash/internal/db"
	apperrors "github.com/dfarias/linguaflash/internal/errors"
	"github.com/dfarias/linguaflash/internal/models"
	"github.com/dfarias/linguaflash/internal/repository/sqlite"
	"github.com/dfarias/linguaflash/internal/services"
	"github.com/dfarias/linguaflash/internal/session"
	"github.com/dfarias/linguaflash/internal/testutil"
)

type QuizServiceSuite struct {
	suite.Suite
	db      *db.DB
	service services.QuizService
}

func (s *QuizServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	engine := testutil.NewTestEngine(s.T(), s.db)
	s.service = services.NewQuizService(engine,
		sqlite.NewQuizRepository(s.db.DB),
		sqlite.NewAttemptRepository(s.db.DB))
}

func (s *QuizServiceSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

// holaQuizID returns the seeded quiz whose correct answer is "Hola".
func (s *QuizServiceSuite) holaQuizID() string {
	var id string
	err := s.db.QueryRowContext(context.Background(), `
SELECT id FROM quizzes WHERE correct_answer = 'Hola' LIMIT 1
`).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *QuizServiceSuite) TestSubmitAttempt_Grading() {
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}
	quizID := s.holaQuizID()

	tests := []struct {
		name    string
		answer  string
		correct bool
	}{
		{"exact match", "Hola", true},
		{"case matters", "hola", false},
		{"surrounding whitespace ignored", "  Hola  ", true},
		{"wrong option", "Adiós", false},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			attempt, err := s.service.SubmitAttempt(ctx, sess, quizID, tt.answer)
			s.Require().NoError(err)
			s.Require().NotNil(attempt)
			s.Assert().Equal(tt.correct, attempt.IsCorrect)
			s.Assert().Equal(tt.answer, attempt.Answer, "raw answer is stored as submitted")
		})
	}
}

func (s *QuizServiceSuite) TestSubmitAttempt_AppendsEveryAttempt() {
	ctx := context.Background()
	sess := session.Session{UserID: "user-a"}
	quizID := s.holaQuizID()

	for i := 0; i < 3; i++ {
		_, err := s.service.SubmitAttempt(ctx, sess, quizID, "Hola")
		s.Require().NoError(err)
	}

	attempts, err := s.service.ListAttempts(ctx, sess, quizID)
	s.Require().NoError(err)
	s.Assert().Len(attempts, 3)
}

func (s *QuizServiceSuite) TestSubmitAttempt_MissingQuiz() {
	sess := session.Session{UserID: "user-a"}

	_, err := s.service.SubmitAttempt(context.Background(), sess, uuid.NewString(), "Hola")
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func (s *QuizServiceSuite) TestSubmitAttempt_Unauthenticated() {
	_, err := s.service.SubmitAttempt(context.Background(), session.Anonymous, s.holaQuizID(), "Hola")
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeAccessDenied))
}

func (s *QuizServiceSuite) TestListAttempts_IsolatedPerUser() {
	ctx := context.Background()
	quizID := s.holaQuizID()

	_, err := s.service.SubmitAttempt(ctx, session.Session{UserID: "user-a"}, quizID, "Hola")
	s.Require().NoError(err)

	attempts, err := s.service.ListAttempts(ctx, session.Session{UserID: "user-b"}, quizID)
	s.Require().NoError(err)
	s.Assert().Empty(attempts, "one identity must never see another's attempts")
}

func (s *QuizServiceSuite) TestListQuizzes() {
	quizzes, err := s.service.ListQuizzes(context.Background(), session.Session{UserID: "user-a"}, models.QuizFilter{})
	s.Require().NoError(err)
	s.Assert().NotEmpty(quizzes)
}

func (s *QuizServiceSuite) TestListQuizzes_Unauthenticated() {
	_, err := s.service.ListQuizzes(context.Background(), session.Anonymous, models.QuizFilter{})
	s.Require().Error(err)
	s.Assert().True(apperrors.IsCode(err, apperrors.ErrCodeAccessDenied))
}

func TestQuizServiceSuite(t *testing.T) {
	suite.Run(t, new(QuizServiceSuite))
}

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dfarias/linguaflash/internal/api"
	"github.com/dfarias/linguaflash/internal/db"
	"github.com/dfarias/linguaflash/internal/repository/sqlite"
	"github.com/dfarias/linguaflash/internal/services"
	"github.com/dfarias/linguaflash/internal/session"
	"github.com/dfarias/linguaflash/internal/testutil"
)

type ServerSuite struct {
	suite.Suite
	db       *db.DB
	server   *httptest.Server
	provider *session.TokenProvider
}

func (s *ServerSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	engine := testutil.NewTestEngine(s.T(), s.db)
	s.provider = session.NewTokenProvider("test-secret-0123456789", time.Hour)

	srv := &api.Server{
		FlashcardService: services.NewFlashcardService(engine, sqlite.NewFlashcardRepository(s.db.DB)),
		ProgressService:  services.NewProgressService(engine, sqlite.NewProgressRepository(s.db.DB)),
		QuizService:      services.NewQuizService(engine, sqlite.NewQuizRepository(s.db.DB), sqlite.NewAttemptRepository(s.db.DB)),
		LevelService:     services.NewLevelService(engine, sqlite.NewLevelRepository(s.db.DB)),
		SessionProvider:  s.provider,
	}
	s.server = httptest.NewServer(srv.Routes())
}

func (s *ServerSuite) TearDownTest() {
	s.server.Close()
	testutil.MustClose(s.T(), s.db)
}

func (s *ServerSuite) request(method, path, token string, body any) *http.Response {
	s.T().Helper()

	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *ServerSuite) decode(resp *http.Response, out any) {
	s.T().Helper()
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *ServerSuite) token(userID string) string {
	tok, err := s.provider.Issue(userID)
	s.Require().NoError(err)
	return tok
}

func (s *ServerSuite) TestHealth_NoAuthRequired() {
	resp := s.request(http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
}

func (s *ServerSuite) TestAuth_MissingToken() {
	resp := s.request(http.MethodGet, "/flashcards", "", nil)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ServerSuite) TestAuth_InvalidToken() {
	resp := s.request(http.MethodGet, "/flashcards", "not-a-token", nil)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ServerSuite) TestListFlashcards() {
	resp := s.request(http.MethodGet, "/flashcards", s.token("user-a"), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Flashcards []struct {
			ID   int64  `json:"id"`
			Word string `json:"word"`
		} `json:"flashcards"`
	}
	s.decode(resp, &body)
	s.Assert().Len(body.Flashcards, 12)
}

func (s *ServerSuite) TestListFlashcards_BadLevelID() {
	resp := s.request(http.MethodGet, "/flashcards?level_id=abc", s.token("user-a"), nil)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerSuite) TestGetFlashcard() {
	resp := s.request(http.MethodGet, "/flashcards/1", s.token("user-a"), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Flashcard struct {
			ID          int64  `json:"id"`
			Word        string `json:"word"`
			Translation string `json:"translation"`
		} `json:"flashcard"`
	}
	s.decode(resp, &body)
	s.Assert().Equal(int64(1), body.Flashcard.ID)
	s.Assert().NotEmpty(body.Flashcard.Word)
}

func (s *ServerSuite) TestGetFlashcard_Missing() {
	resp := s.request(http.MethodGet, "/flashcards/999999", s.token("user-a"), nil)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerSuite) TestGetProgress_AbsentThenPresent() {
	token := s.token("user-a")

	resp := s.request(http.MethodGet, "/flashcards/1/progress", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var before struct {
		Progress *struct {
			Known bool `json:"known"`
		} `json:"progress"`
	}
	s.decode(resp, &before)
	s.Assert().Nil(before.Progress, "no progress before first interaction")

	resp = s.request(http.MethodPost, "/flashcards/1/known", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.request(http.MethodGet, "/flashcards/1/progress", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var after struct {
		Progress *struct {
			Known bool `json:"known"`
		} `json:"progress"`
	}
	s.decode(resp, &after)
	s.Require().NotNil(after.Progress)
	s.Assert().True(after.Progress.Known)
}

func (s *ServerSuite) TestMarkKnown_Flow() {
	token := s.token("user-a")

	resp := s.request(http.MethodPost, "/flashcards/1/known", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.request(http.MethodGet, "/flashcards/known", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Known []int64 `json:"known_flashcard_ids"`
	}
	s.decode(resp, &body)
	s.Assert().Equal([]int64{1}, body.Known)
}

func (s *ServerSuite) TestMarkKnown_MissingFlashcard() {
	resp := s.request(http.MethodPost, "/flashcards/999999/known", s.token("user-a"), nil)
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.decode(resp, &body)
	s.Assert().Equal("NOT_FOUND", body.Error.Code)
}

func (s *ServerSuite) TestKnownFlashcards_ScopedToCaller() {
	resp := s.request(http.MethodPost, "/flashcards/1/known", s.token("user-a"), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.request(http.MethodGet, "/flashcards/known", s.token("user-b"), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Known []int64 `json:"known_flashcard_ids"`
	}
	s.decode(resp, &body)
	s.Assert().Empty(body.Known)
}

func (s *ServerSuite) TestQuizAttempt_Flow() {
	token := s.token("user-a")

	resp := s.request(http.MethodGet, "/levels", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var levels struct {
		Levels []struct {
			ID int64 `json:"id"`
		} `json:"levels"`
	}
	s.decode(resp, &levels)
	s.Require().NotEmpty(levels.Levels)

	resp = s.request(http.MethodGet, fmt.Sprintf("/levels/%d/quizzes", levels.Levels[0].ID), token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var quizzes struct {
		Quizzes []struct {
			ID            string `json:"id"`
			CorrectAnswer string `json:"correct_answer"`
		} `json:"quizzes"`
	}
	s.decode(resp, &quizzes)
	s.Require().NotEmpty(quizzes.Quizzes)

	quiz := quizzes.Quizzes[0]
	resp = s.request(http.MethodPost, "/quizzes/"+quiz.ID+"/attempts", token,
		map[string]string{"answer": quiz.CorrectAnswer})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created struct {
		Attempt struct {
			IsCorrect bool `json:"is_correct"`
		} `json:"attempt"`
	}
	s.decode(resp, &created)
	s.Assert().True(created.Attempt.IsCorrect)

	resp = s.request(http.MethodGet, "/quizzes/"+quiz.ID+"/attempts", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var listed struct {
		Attempts []struct {
			ID string `json:"id"`
		} `json:"attempts"`
	}
	s.decode(resp, &listed)
	s.Assert().Len(listed.Attempts, 1)
}

func (s *ServerSuite) TestSubmitAttempt_EmptyAnswer() {
	resp := s.request(http.MethodPost, "/quizzes/some-id/attempts", s.token("user-a"),
		map[string]string{"answer": ""})
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerSuite) TestCompleteLevel_Flow() {
	token := s.token("user-a")

	resp := s.request(http.MethodGet, "/levels", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var levels struct {
		Levels []struct {
			ID int64 `json:"id"`
		} `json:"levels"`
	}
	s.decode(resp, &levels)
	s.Require().NotEmpty(levels.Levels)

	resp = s.request(http.MethodPost, fmt.Sprintf("/levels/%d/complete", levels.Levels[0].ID), token,
		map[string]any{"score": 85, "accuracy": 92.5})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var completed struct {
		UserLevel struct {
			Completed bool `json:"completed"`
			Score     int  `json:"score"`
		} `json:"user_level"`
	}
	s.decode(resp, &completed)
	s.Assert().True(completed.UserLevel.Completed)
	s.Assert().Equal(85, completed.UserLevel.Score)

	resp = s.request(http.MethodGet, "/progress/levels", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var progress struct {
		UserLevels []struct {
			LevelID int64 `json:"level_id"`
		} `json:"user_levels"`
	}
	s.decode(resp, &progress)
	s.Assert().Len(progress.UserLevels, 1)
}

func (s *ServerSuite) TestDevToken_DisabledByDefault() {
	resp := s.request(http.MethodPost, "/dev/token", "", map[string]string{"user_id": "user-a"})
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

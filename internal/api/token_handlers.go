package api

import (
	"net/http"

	"github.com/dfarias/linguaflash/internal/logger"

	apperrors "github.com/dfarias/linguaflash/internal/errors"
)

type devTokenRequest struct {
	UserID string `json:"user_id"`
}

// handleDevToken mints a bearer token for local development. The route is
// only registered when DEV_TOKEN_ENDPOINT is enabled; real deployments get
// tokens from the external identity provider.
func (s *Server) handleDevToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req devTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, apperrors.NewBadRequestError("invalid request body"))
		return
	}
	if req.UserID == "" {
		handleError(w, r, apperrors.NewValidationError("user_id", "must not be empty"))
		return
	}

	token, err := s.DevTokenIssuer.Issue(req.UserID)
	if err != nil {
		log.Error("failed to issue dev token: %v", err)
		handleError(w, r, apperrors.NewInternalError(err))
		return
	}

	log.Info("dev token issued: user_id=%s", req.UserID)
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

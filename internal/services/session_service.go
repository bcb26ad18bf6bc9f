package services

import (
	"gifty/internal/models/response_models"
	"gifty/pkg/utils"
)

type SessionServiceInterface interface {
	Create() (*response_models.SessionResponse, error)
}

type SessionService struct {
	tokens *utils.SessionTokens
}

func NewSessionService(tokens *utils.SessionTokens) SessionServiceInterface {
	return &SessionService{tokens: tokens}
}

// Create issues an anonymous browser session. It does not identify a user.
func (s *SessionService) Create() (*response_models.SessionResponse, error) {
	id, token, expiresAt, err := s.tokens.Issue()
	if err != nil {
		return nil, err
	}
	return &response_models.SessionResponse{SessionID: id, Token: token, ExpiresAt: expiresAt}, nil
}

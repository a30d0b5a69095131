// Package v1 is the HTTP surface: chat turns, conversation history and
// domain CRUD, all scoped to the authenticated user.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/forkful/forkful/chat"
	"github.com/forkful/forkful/server/auth"
	"github.com/forkful/forkful/server/profile"
	"github.com/forkful/forkful/store"
)

// APIV1Service holds the wired dependencies of the v1 routes.
type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Engine  *chat.Engine

	authenticator *auth.Authenticator
}

func NewAPIV1Service(p *profile.Profile, st *store.Store, engine *chat.Engine) *APIV1Service {
	return &APIV1Service{
		Profile:       p,
		Store:         st,
		Engine:        engine,
		authenticator: auth.NewAuthenticator(p.Secret),
	}
}

// Register mounts all v1 routes on e.
func (s *APIV1Service) Register(e *echo.Echo) {
	s.registerChatRoutes(e)
	s.registerDomainRoutes(e)
}

// requireAuth resolves the bearer token to a user id or replies 401.
func (s *APIV1Service) requireAuth(c *echo.Context) (string, error) {
	userID, err := s.authenticator.AuthenticateToUserID(c.Request().Header.Get("Authorization"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return userID, nil
}

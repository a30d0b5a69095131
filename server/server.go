// Package server assembles the HTTP server around the chat engine and store.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/pkg/errors"

	"github.com/forkful/forkful/chat"
	"github.com/forkful/forkful/plugin/convcache"
	"github.com/forkful/forkful/server/profile"
	apiv1 "github.com/forkful/forkful/server/router/api/v1"
	"github.com/forkful/forkful/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	httpServer *http.Server
	engine     *chat.Engine
	cache      *convcache.Cache
}

// NewServer wires the store, conversation cache, chat engine and routes.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLogger())

	cache, err := convcache.New(p.Data)
	if err != nil {
		return nil, errors.Wrap(err, "open conversation cache")
	}

	conversations := chat.NewConversations(st, cache, nil)
	model := chat.NewAnthropicClient(p.AnthropicAPIKey, p.ModelTimeout, chat.WithModel(p.AnthropicModel))
	engine := chat.NewEngine(st, conversations, model, chat.WithModelTimeout(p.ModelTimeout))

	s := &Server{
		Profile:    p,
		Store:      st,
		echoServer: e,
		httpServer: &http.Server{Addr: fmt.Sprintf("%s:%d", p.Addr, p.Port), Handler: e},
		engine:     engine,
		cache:      cache,
	}

	e.GET("/healthz", func(c *echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	apiv1.NewAPIV1Service(p, st, engine).Register(e)
	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("server started", "addr", s.httpServer.Addr, "mode", s.Profile.Mode)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains pending conversation saves before closing the backends.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", "err", err)
	}
	s.engine.Conversations().Flush()
	if err := s.cache.Close(); err != nil {
		slog.Error("failed to close conversation cache", "err", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "err", err)
	}
	slog.Info("server shut down")
}

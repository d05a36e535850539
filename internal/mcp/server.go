// ABOUTME: MCP server for journal integration with AI agents.
// ABOUTME: Provides tools, resources, and prompts for note management.

package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harper/journal/internal/ai"
	"github.com/harper/journal/internal/db"
	"github.com/harper/journal/internal/state"
)

type Server struct {
	server *mcp.Server
	notes  *db.Notes
	cats   *db.Categories
	ctrl   *state.Controller
	gen    *ai.Generator
	log    *zap.Logger
}

type Deps struct {
	Notes      *db.Notes
	Categories *db.Categories
	Controller *state.Controller
	Generator  *ai.Generator
	Logger     *zap.Logger
}

func NewServer(deps Deps, version string) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		notes: deps.Notes,
		cats:  deps.Categories,
		ctrl:  deps.Controller,
		gen:   deps.Generator,
		log:   log.Named("mcp"),
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "journal",
			Version: version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

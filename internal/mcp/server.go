// Package mcp exposes Lonelog decoding and the ingested campaign state as
// Model Context Protocol tools.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"lonelog/internal/store"
)

const (
	ToolParseLog      = "parse_log"
	ToolExtractDeltas = "extract_deltas"
	ToolEntityState   = "entity_state"
	ToolListEntities  = "list_entities"
	ToolListProgress  = "list_progress"
	ToolListThreads   = "list_threads"
)

const instructions = `parse_log and extract_deltas decode Lonelog text passed in the call.
entity_state, list_entities, list_progress and list_threads read campaigns stored by "lonelog ingest".`

// Server answers tool calls. The text tools are pure; the rest read db.
type Server struct {
	db  store.Store
	mcp *sdk.Server
}

func NewServer(db store.Store, version string) *Server {
	s := &Server{
		db: db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "lonelog",
			Version: version,
		}, &sdk.ServerOptions{
			Instructions: instructions,
		}),
	}
	s.registerTools()
	return s
}

// Run serves a single session on transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}

package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corentinmace/clockwork-sub000/internal/config"
	"github.com/corentinmace/clockwork-sub000/internal/errors"
	"github.com/corentinmace/clockwork-sub000/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// DumpRequest represents the arguments for dump.
type DumpRequest struct {
	In  string `json:"in"`
	Out string `json:"out,omitempty"`
}

// BuildRequest represents the arguments for build.
type BuildRequest struct {
	In  string  `json:"in"`
	Out string  `json:"out,omitempty"`
	Key *string `json:"key,omitempty"`
}

// InspectRequest represents the arguments for inspect.
type InspectRequest struct {
	In      string `json:"in"`
	Preview int    `json:"preview,omitempty"`
}

// PatchRequest represents the arguments for patch.
type PatchRequest struct {
	In    string `json:"in"`
	Out   string `json:"out,omitempty"`
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// AppendRequest represents the arguments for append.
type AppendRequest struct {
	In   string `json:"in"`
	Out  string `json:"out,omitempty"`
	Text string `json:"text"`
}

// IndexRequest represents the arguments for index.
type IndexRequest struct {
	Path string `json:"path"`
	Game string `json:"game,omitempty"`
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`
}

// FetchRequest represents the arguments for fetch.
type FetchRequest struct {
	ID      string `json:"id,omitempty"`
	Game    string `json:"game,omitempty"`
	Name    string `json:"name,omitempty"`
	Message *int   `json:"message,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	Game   string `json:"game,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// SearchRequest represents the arguments for search.
type SearchRequest struct {
	Query  string  `json:"query"`
	Game   *string `json:"game,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// PurgeRequest represents the arguments for purge.
type PurgeRequest struct {
	ID   string `json:"id,omitempty"`
	Game string `json:"game,omitempty"`
	All  bool   `json:"all,omitempty"`
}

// checkPaths validates a read path and an optional write path against
// extension allowlists and the allowed-directory policy. Local CLI use
// skips this; everything arriving over MCP goes through it.
func (h *Handlers) checkPaths(in string, inExts []string, out string, outExts []string) error {
	if err := ops.ValidatePath(in, ops.PathCheckRead, h.cfg, inExts); err != nil {
		return err
	}
	if out != "" {
		if err := ops.ValidatePath(out, ops.PathCheckWrite, h.cfg, outExts); err != nil {
			return err
		}
	}
	return nil
}

// Handler implementations

// HandleDump handles the dump tool call.
func (h *Handlers) HandleDump(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DumpRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.checkPaths(input.In, ops.BinaryExts, input.Out, ops.TextExts); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Dump(h.cfg, ops.DumpInput{In: input.In, Out: input.Out})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleBuild handles the build tool call.
func (h *Handlers) HandleBuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BuildRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.checkPaths(input.In, ops.TextExts, input.Out, ops.BinaryExts); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Build(h.cfg, ops.BuildInput{In: input.In, Out: input.Out, Key: input.Key})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleInspect handles the inspect tool call.
func (h *Handlers) HandleInspect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InspectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := ops.ValidatePath(input.In, ops.PathCheckRead, h.cfg, ops.BinaryExts); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Inspect(h.cfg, ops.InspectInput{In: input.In, Preview: input.Preview})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePatch handles the patch tool call.
func (h *Handlers) HandlePatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PatchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.checkPaths(input.In, ops.BinaryExts, input.Out, ops.BinaryExts); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Patch(h.cfg, ops.PatchInput{
		In:    input.In,
		Out:   input.Out,
		Index: input.Index,
		Text:  input.Text,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAppend handles the append tool call.
func (h *Handlers) HandleAppend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AppendRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.checkPaths(input.In, ops.BinaryExts, input.Out, ops.BinaryExts); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Append(h.cfg, ops.AppendInput{In: input.In, Out: input.Out, Text: input.Text})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleIndex handles the index tool call.
func (h *Handlers) HandleIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IndexRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := ops.ValidatePath(input.Path, ops.PathCheckRead, h.cfg, ops.BinaryExts); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Index(h.db, h.cfg, ops.IndexInput{
		Path: input.Path,
		Game: input.Game,
		Name: input.Name,
		Mode: input.Mode,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:      input.ID,
		Game:    input.Game,
		Name:    input.Name,
		Message: input.Message,
		Limit:   input.Limit,
		Offset:  input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Game:   input.Game,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSearch handles the search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(h.db, ops.SearchInput{
		Query:  input.Query,
		Game:   input.Game,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleInventory handles the inventory tool call.
func (h *Handlers) HandleInventory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Inventory(h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePurge handles the purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(h.db, ops.PurgeInput{ID: input.ID, Game: input.Game, All: input.All})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// ClockworkError details are kept for client-fixable errors only, so
// internal errors never leak file paths or SQL text.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if cwErr, ok := err.(*errors.ClockworkError); ok {
		errorObj := map[string]any{
			"code":    cwErr.Code,
			"message": cwErr.Message,
			"status":  cwErr.Status,
		}
		if cwErr.Code != errors.ErrInternal && cwErr.Details != nil {
			errorObj["details"] = cwErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

// Package mcp implements the Model Context Protocol over both stdio and
// HTTP, sharing one Dispatch function so tool-list parity across the two
// transports is structural rather than independently maintained.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/protocol"
)

// Server holds the executor and identity needed to answer MCP calls.
type Server struct {
	Executor     *executor.Executor
	ServerName   string
	ServerVersion string
}

// NewServer creates an MCP Server.
func NewServer(ex *executor.Executor, name, version string) *Server {
	return &Server{Executor: ex, ServerName: name, ServerVersion: version}
}

// toolDescriptor is the MCP wire shape for one entry in tools/list.
type toolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      serverInfo     `json:"serverInfo"`
	Capabilities    capabilities   `json:"capabilities"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// capabilities.Tools is declared as an array, even though always empty,
// since clients that type-check the initialize response expect a list.
type capabilities struct {
	Tools []struct{} `json:"tools"`
}

type toolsListResult struct {
	Tools []toolDescriptor `json:"tools"`
}

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
	TenantID  string          `json:"tenant_id,omitempty"`
}

type authenticateParams struct {
	TenantID string `json:"tenant_id,omitempty"`
}

type authenticateResult struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

// CallerInfo is the caller identity an adapter (stdio or HTTP) resolves
// before calling Dispatch; Dispatch itself is transport-neutral.
type CallerInfo struct {
	UserID            string
	Protocol          string
	ProgressToken     string
	CancellationToken <-chan struct{}
}

// Dispatch handles one JSON-RPC request against s's tool catalog.
func (s *Server) Dispatch(ctx context.Context, req protocol.Request, caller CallerInfo) protocol.Response {
	switch req.Method {
	case "initialize":
		return protocol.SuccessResponse(req.ID, initializeResult{
			ProtocolVersion: "2024-11-05",
			ServerInfo:      serverInfo{Name: s.ServerName, Version: s.ServerVersion},
			Capabilities:    capabilities{Tools: []struct{}{}},
		})

	case "tools/list":
		catalog := s.Executor.Catalog()
		tools := make([]toolDescriptor, 0, len(catalog))
		for _, t := range catalog {
			tools = append(tools, toolDescriptor{Name: t.Name, Description: t.Description, InputSchema: t.Schema})
		}
		return protocol.SuccessResponse(req.ID, toolsListResult{Tools: tools})

	case "tools/call":
		var params toolsCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return protocol.ErrorResponse(req.ID, protocol.CodeInvalidParams, "invalid tools/call params: "+err.Error())
		}
		if params.Name == "" {
			return protocol.ErrorResponse(req.ID, protocol.CodeInvalidParams, "tools/call requires a tool name")
		}

		resp := s.Executor.Dispatch(ctx, executor.UniversalRequest{
			ToolName:          params.Name,
			Parameters:        params.Arguments,
			UserID:            caller.UserID,
			Protocol:          caller.Protocol,
			TenantID:          params.TenantID,
			ProgressToken:     caller.ProgressToken,
			CancellationToken: caller.CancellationToken,
		})
		return universalToRPC(req.ID, resp)

	case "ping":
		return protocol.SuccessResponse(req.ID, struct{}{})

	case "authenticate":
		if caller.UserID == "" {
			return protocol.ErrorResponse(req.ID, protocol.CodeUnauthenticated, "authentication required")
		}
		var params authenticateParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return protocol.ErrorResponse(req.ID, protocol.CodeInvalidParams, "invalid authenticate params: "+err.Error())
			}
		}
		info, err := s.Executor.Whoami(ctx, caller.UserID, params.TenantID)
		if err != nil {
			return protocol.ErrorResponse(req.ID, protocol.CodeForKind(apperr.KindOf(err)), err.Error())
		}
		return protocol.SuccessResponse(req.ID, authenticateResult{
			UserID:   info.UserID.String(),
			Role:     info.Role,
			TenantID: info.TenantID.String(),
		})

	default:
		return protocol.ErrorResponse(req.ID, protocol.CodeMethodNotFound, "method not found: "+req.Method)
	}
}

func universalToRPC(id json.RawMessage, resp executor.UniversalResponse) protocol.Response {
	if !resp.Success {
		return protocol.ErrorResponse(id, protocol.CodeForKind(resp.ErrorKind), resp.Error)
	}
	return protocol.Response{JSONRPC: "2.0", ID: id, Result: json.RawMessage(resp.Result)}
}

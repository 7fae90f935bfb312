package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/protocol"
	"github.com/pierre-mcp/pierre/internal/protocol/mcp"
	"github.com/pierre-mcp/pierre/internal/storage"
	"github.com/pierre-mcp/pierre/internal/storage/memory"
)

func newTestServer(t *testing.T) (*mcp.Server, storage.User) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	u, err := store.CreateUser(ctx, storage.User{Email: "a@example.com", Status: storage.StatusActive, Role: storage.RoleUser})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	tenant, err := store.CreateTenant(ctx, storage.Tenant{Name: "T", Slug: "t"})
	if err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}
	if err := store.SetUserTenant(ctx, u.ID, tenant.ID); err != nil {
		t.Fatalf("SetUserTenant: %v", err)
	}
	u, _ = store.GetUserByID(ctx, u.ID)

	ex := executor.New(store)
	ex.Register(executor.Tool{
		Name:        "ping",
		Description: "replies pong",
		Schema:      json.RawMessage(`{"type":"object"}`),
		Execute: func(executor.ToolContext) (any, error) {
			return map[string]string{"message": "pong"}, nil
		},
	})

	return mcp.NewServer(ex, "pierre", "1.0.0"), u
}

func TestDispatch_Initialize(t *testing.T) {
	server, u := newTestServer(t)
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "initialize"}, mcp.CallerInfo{UserID: u.ID.String()})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestDispatch_ToolsList(t *testing.T) {
	server, u := newTestServer(t)
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "tools/list"}, mcp.CallerInfo{UserID: u.ID.String()})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	raw, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(raw), "ping") {
		t.Fatalf("expected tools/list to include the registered ping tool, got %s", raw)
	}
}

func TestDispatch_ToolsCall(t *testing.T) {
	server, u := newTestServer(t)
	params, _ := json.Marshal(map[string]any{"name": "ping", "arguments": json.RawMessage(`{}`)})
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "tools/call", Params: params}, mcp.CallerInfo{UserID: u.ID.String(), Protocol: "mcp-http"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestDispatch_ToolsCall_UnknownTool(t *testing.T) {
	server, u := newTestServer(t)
	params, _ := json.Marshal(map[string]any{"name": "does_not_exist"})
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "tools/call", Params: params}, mcp.CallerInfo{UserID: u.ID.String()})
	if resp.Error == nil || resp.Error.Code != protocol.CodeNotFound {
		t.Fatalf("expected not-found error, got %+v", resp.Error)
	}
}

func TestDispatch_Ping(t *testing.T) {
	server, u := newTestServer(t)
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "ping"}, mcp.CallerInfo{UserID: u.ID.String()})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestDispatch_Authenticate(t *testing.T) {
	server, u := newTestServer(t)
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "authenticate"}, mcp.CallerInfo{UserID: u.ID.String()})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	raw, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(raw), u.ID.String()) {
		t.Fatalf("expected authenticate result to echo user_id, got %s", raw)
	}
}

func TestDispatch_Authenticate_Unauthenticated(t *testing.T) {
	server, _ := newTestServer(t)
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "authenticate"}, mcp.CallerInfo{})
	if resp.Error == nil || resp.Error.Code != protocol.CodeUnauthenticated {
		t.Fatalf("expected unauthenticated error, got %+v", resp.Error)
	}
}

func TestDispatch_UnknownMethod(t *testing.T) {
	server, u := newTestServer(t)
	resp := server.Dispatch(context.Background(), protocol.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "bogus"}, mcp.CallerInfo{UserID: u.ID.String()})
	if resp.Error == nil || resp.Error.Code != protocol.CodeMethodNotFound {
		t.Fatalf("expected method-not-found error, got %+v", resp.Error)
	}
}

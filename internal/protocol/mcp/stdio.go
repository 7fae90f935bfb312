package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/pierre-mcp/pierre/internal/protocol"
)

// ServeStdio runs a newline-delimited JSON-RPC loop over r/w until r is
// exhausted or ctx is cancelled. userID authenticates every call on this
// connection — stdio has no per-request Authorization header, so the
// caller (cmd/pierre) resolves it once at process start, e.g. from an
// MCP_USER_ID environment variable or a long-lived token exchanged out of
// band.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer, userID string, logger *slog.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req protocol.Request
		if err := json.Unmarshal(line, &req); err != nil {
			if writeErr := writeLine(w, protocol.ErrorResponse(nil, protocol.CodeParseError, "parse error: "+err.Error())); writeErr != nil {
				return writeErr
			}
			continue
		}

		resp := s.Dispatch(ctx, req, CallerInfo{UserID: userID, Protocol: "mcp-stdio"})
		if err := writeLine(w, resp); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("mcp stdio: reading request", "error", err)
		return err
	}
	return nil
}

func writeLine(w io.Writer, resp protocol.Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding mcp response: %w", err)
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}

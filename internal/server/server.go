package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/ironsheep/image-redact-mcp/internal/config"
	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/session"
)

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	session *session.Session
	debug   bool
	version string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithDebug enables per-request debug logging.
func WithDebug(on bool) Option {
	return func(s *Server) {
		s.debug = on
	}
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// New creates a server using the built-in default configuration.
func New(opts ...Option) *Server {
	srv, _ := NewFromConfig(config.Default(), opts...)
	return srv
}

// NewFromConfig creates a server whose session starts with the render and
// detection settings of cfg. Vision detection is available when cfg has an
// API key.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Server, error) {
	params, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}
	sopts := session.Options{
		Params:    params,
		Detection: cfg.DetectionOptions(),
	}
	if client := cfg.VisionClient(); client != nil {
		sopts.Annotator = client
	}

	s := &Server{
		cache:   imaging.NewImageCache(),
		session: session.New(sopts),
		version: "0.1.0",
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(context.Background(), os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from in and writes
// responses to out until in is exhausted.
//
// Requests are handled in order, except vision detection, which runs in the
// background so the client can keep editing while the model answers. Its
// response is written when it completes.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		encoder = json.NewEncoder(out)
	)
	write := func(resp *MCPResponse) {
		if resp == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := encoder.Encode(resp); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}
		if s.debug {
			log.Printf("request id=%v method=%s", req.ID, req.Method)
		}

		if isBackgroundCall(&req) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				write(s.handleRequest(ctx, &req))
			}()
			continue
		}
		write(s.handleRequest(ctx, &req))
	}
	wg.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// isBackgroundCall reports whether req is a tools/call of a tool that waits
// on the network.
func isBackgroundCall(req *MCPRequest) bool {
	if req.Method != "tools/call" {
		return false
	}
	var p ToolCallParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return false
	}
	return p.Name == toolDetectVision
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-redact-mcp",
				"version": s.version,
			},
		},
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/redact"
	"github.com/ironsheep/image-redact-mcp/internal/region"
	"github.com/ironsheep/image-redact-mcp/internal/session"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "redact_load_image", "redact_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	started := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if s.debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(started), err)
	}
	if err != nil {
		var argErr *argumentError
		if errors.As(err, &argErr) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image
	case toolLoadImage:
		return s.handleLoadImage(ctx, args)

	// Detection
	case toolDetectRed:
		return s.handleDetectRed(ctx, args)
	case toolDetectVision:
		return s.handleDetectVision(ctx)

	// Regions
	case toolAddRegion:
		return s.handleAddRegion(ctx, args)
	case toolPointer:
		return s.handlePointer(ctx, args)
	case toolUndo:
		return s.handleUndo(ctx)
	case toolClear:
		return s.handleClear(ctx)
	case toolListRegions:
		return s.regionsResult(), nil

	// Rendering
	case toolSetParams:
		return s.handleSetParams(ctx, args)
	case toolRender:
		return s.handleRender(ctx, args)
	case toolPreview:
		return s.handlePreview()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// argumentError marks a tool failure caused by bad arguments.
type argumentError struct {
	err error
}

func (e *argumentError) Error() string { return e.err.Error() }
func (e *argumentError) Unwrap() error { return e.err }

func badArgs(format string, a ...interface{}) error {
	return &argumentError{err: fmt.Errorf(format, a...)}
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as an
// empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &argumentError{err: err}
	}
	return nil
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Handlers ===

type loadImageArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleLoadImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a loadImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, badArgs("path is required")
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}

	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if _, err := s.session.Load(ctx, a.Path, src); err != nil {
		return nil, err
	}
	return imaging.Info(a.Path, src), nil
}

// === Detection Handlers ===

type thresholdArgs struct {
	R *int `json:"r"`
	G *int `json:"g"`
	B *int `json:"b"`
}

type detectRedArgs struct {
	GridSize  *int           `json:"grid_size"`
	Threshold *thresholdArgs `json:"threshold"`
}

type regionListResult struct {
	Regions []region.Region `json:"regions"`
	Count   int             `json:"count"`
}

func newRegionList(rs []region.Region) *regionListResult {
	if rs == nil {
		rs = []region.Region{}
	}
	return &regionListResult{Regions: rs, Count: len(rs)}
}

type detectResult struct {
	Detected *regionListResult `json:"detected"`
	Total    int               `json:"total_regions"`
}

func (s *Server) handleDetectRed(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a detectRedArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	opts := s.session.DetectionOptions()
	if a.GridSize != nil {
		if *a.GridSize < 1 {
			return nil, badArgs("grid_size must be at least 1, got %d", *a.GridSize)
		}
		opts.GridSize = *a.GridSize
	}
	if a.Threshold != nil {
		for _, ch := range []struct {
			v   *int
			dst *uint8
		}{
			{a.Threshold.R, &opts.Threshold.R},
			{a.Threshold.G, &opts.Threshold.G},
			{a.Threshold.B, &opts.Threshold.B},
		} {
			if ch.v == nil {
				continue
			}
			if *ch.v < 0 || *ch.v > 255 {
				return nil, badArgs("threshold channels must be 0-255, got %d", *ch.v)
			}
			*ch.dst = uint8(*ch.v)
		}
	}

	found, err := s.session.DetectRed(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &detectResult{Detected: newRegionList(found), Total: len(s.session.Regions())}, nil
}

func (s *Server) handleDetectVision(ctx context.Context) (interface{}, error) {
	found, err := s.session.DetectVision(ctx)
	if err != nil {
		return nil, err
	}
	return &detectResult{Detected: newRegionList(found), Total: len(s.session.Regions())}, nil
}

// === Region Handlers ===

type displayArgs struct {
	DisplayWidth  *float64 `json:"display_width"`
	DisplayHeight *float64 `json:"display_height"`
}

// apply records the display size when both dimensions are given.
func (d displayArgs) apply(sess *session.Session) error {
	if d.DisplayWidth == nil && d.DisplayHeight == nil {
		return nil
	}
	if d.DisplayWidth == nil || d.DisplayHeight == nil {
		return badArgs("display_width and display_height must be given together")
	}
	if *d.DisplayWidth <= 0 || *d.DisplayHeight <= 0 {
		return badArgs("display size must be positive")
	}
	sess.SetDisplaySize(*d.DisplayWidth, *d.DisplayHeight)
	return nil
}

type addRegionArgs struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
	displayArgs
}

type addRegionResult struct {
	Added   bool            `json:"added"`
	Region  *region.Region  `json:"region,omitempty"`
	Regions []region.Region `json:"regions"`
}

func (s *Server) handleAddRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a addRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.W <= 0 || a.H <= 0 {
		return nil, badArgs("w and h must be positive")
	}
	if err := a.displayArgs.apply(s.session); err != nil {
		return nil, err
	}

	vp := s.session.Viewport()
	r := region.NormalizeDrag(
		vp.ToBuffer(region.Point{X: a.X, Y: a.Y}),
		vp.ToBuffer(region.Point{X: a.X + a.W, Y: a.Y + a.H}),
	)
	added, ok, err := s.session.AddRegion(ctx, r)
	if err != nil {
		return nil, err
	}

	res := &addRegionResult{Added: ok, Regions: s.session.Regions()}
	if ok {
		res.Region = &added
	}
	return res, nil
}

type pointerArgs struct {
	Event string  `json:"event"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	displayArgs
}

type pointerResult struct {
	session.PointerResult
	State   string `json:"state"`
	Regions int    `json:"regions"`
}

func (s *Server) handlePointer(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pointerArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ev := session.PointerEvent(strings.ToLower(a.Event))
	switch ev {
	case session.PointerDown, session.PointerMove, session.PointerUp, session.PointerLeave:
	default:
		return nil, badArgs("event must be down, move, up or leave, got %q", a.Event)
	}
	if err := a.displayArgs.apply(s.session); err != nil {
		return nil, err
	}

	res, err := s.session.Pointer(ctx, ev, region.Point{X: a.X, Y: a.Y})
	if err != nil {
		return nil, err
	}
	return &pointerResult{
		PointerResult: res,
		State:         res.State.String(),
		Regions:       len(s.session.Regions()),
	}, nil
}

type undoResult struct {
	Removed *region.Region `json:"removed,omitempty"`
	*regionListResult
}

func (s *Server) handleUndo(ctx context.Context) (interface{}, error) {
	removed, ok, err := s.session.Undo(ctx)
	if err != nil {
		return nil, err
	}
	res := &undoResult{regionListResult: s.regionsResult()}
	if ok {
		res.Removed = &removed
	}
	return res, nil
}

func (s *Server) handleClear(ctx context.Context) (interface{}, error) {
	if err := s.session.Clear(ctx); err != nil {
		return nil, err
	}
	return s.regionsResult(), nil
}

func (s *Server) regionsResult() *regionListResult {
	return newRegionList(s.session.Regions())
}

// === Rendering Handlers ===

type setParamsArgs struct {
	Style      *string  `json:"style"`
	BlockSize  *int     `json:"block_size"`
	SolidColor *string  `json:"solid_color"`
	Opacity    *float64 `json:"opacity"`
}

type paramsResult struct {
	Style      redact.Style `json:"style"`
	Mode       redact.Mode  `json:"mode"`
	BlockSize  int          `json:"block_size"`
	BlurRadius float64      `json:"blur_radius"`
	SolidColor string       `json:"solid_color,omitempty"`
	Opacity    float64      `json:"opacity"`
}

func newParamsResult(p redact.Parameters) *paramsResult {
	res := &paramsResult{
		Style:      p.Style,
		Mode:       p.Mode(),
		BlockSize:  p.BlockSize,
		BlurRadius: p.BlurRadius(),
		Opacity:    p.Opacity,
	}
	if p.SolidColor != nil {
		res.SolidColor = p.SolidColor.Hex()
	}
	return res
}

func (s *Server) handleSetParams(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a setParamsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	p := s.session.Params()
	if a.Style != nil {
		p.Style = redact.Style(strings.ToLower(*a.Style))
	}
	if a.BlockSize != nil {
		p.BlockSize = *a.BlockSize
	}
	if a.Opacity != nil {
		p.Opacity = *a.Opacity
	}
	if a.SolidColor != nil {
		switch v := strings.TrimSpace(*a.SolidColor); strings.ToLower(v) {
		case "", "none":
			p.SolidColor = nil
		default:
			c, err := imaging.ParseColor(v)
			if err != nil {
				return nil, &argumentError{err: err}
			}
			p.SolidColor = &c
		}
	}
	if err := p.Validate(); err != nil {
		return nil, &argumentError{err: err}
	}

	if err := s.session.SetParams(ctx, p); err != nil {
		return nil, err
	}
	return newParamsResult(p), nil
}

type renderArgs struct {
	OutputPath string `json:"output_path"`
	// IncludeImage defaults to true when no output path is given.
	IncludeImage *bool `json:"include_image"`
}

type renderResult struct {
	*imaging.EncodedImage
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	OutputPath string      `json:"output_path,omitempty"`
	Regions    int         `json:"regions"`
	Params     interface{} `json:"params"`
}

func (s *Server) handleRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	out, err := s.session.Render(ctx)
	if err != nil {
		return nil, err
	}

	res := &renderResult{
		Width:   out.Width,
		Height:  out.Height,
		Regions: len(s.session.Regions()),
		Params:  newParamsResult(s.session.Params()),
	}

	if a.OutputPath != "" {
		path := a.OutputPath
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, imaging.ExportName(time.Now()))
		}
		if err := imaging.WritePNG(path, out); err != nil {
			return nil, err
		}
		res.OutputPath = path
	}

	include := a.OutputPath == ""
	if a.IncludeImage != nil {
		include = *a.IncludeImage
	}
	if include {
		enc, err := imaging.Encode(out)
		if err != nil {
			return nil, err
		}
		res.EncodedImage = enc
	}
	return res, nil
}

func (s *Server) handlePreview() (interface{}, error) {
	prev, err := s.session.Preview()
	if err != nil {
		return nil, err
	}
	return imaging.Encode(prev)
}

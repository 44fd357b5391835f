package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

// Defaults for the hosted annotation model.
const (
	DefaultEndpoint = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	DefaultModel    = "qwen-vl-max"
	DefaultTimeout  = 60 * time.Second
	MaxTokens       = 1000

	// Scale is the range boxes are normalized to in model responses.
	Scale = 1000
)

const maxErrorBody = 512

const systemPrompt = "You are a precise visual assistant. Your only job is to detect red rectangular frames (outlines) drawn by the user on a screenshot.\n\n" +
	"The user draws red boxes to mark areas they want hidden.\n\n" +
	"Return the bounding box [ymin, xmin, ymax, xmax] of each red frame.\n\n" +
	"Rules:\n" +
	"1. Detect only user-drawn red rectangular outlines.\n" +
	"2. Ignore red text, red buttons and red icons that are part of the UI.\n" +
	"3. Each bounding box must tightly enclose its red frame.\n" +
	"4. If there are several red frames, return all of them."

const userPrompt = "Find all red rectangular frames drawn by the user.\n\n" +
	"Output: JSON object {\"boxes\": [[ymin, xmin, ymax, xmax], ...]}.\n\n" +
	"Constraints:\n" +
	"- Coordinates are normalized to 0-1000.\n" +
	"- Return only the bounding boxes of the red frames.\n" +
	"- Do not miss any red frame."

// Client calls an OpenAI-compatible chat completions endpoint with a vision
// model to locate red annotation frames.
type Client struct {
	Endpoint string
	Model    string
	APIKey   string
	HTTP     *http.Client
}

// NewClient creates a client with the default endpoint, model and timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		Model:    DefaultModel,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: DefaultTimeout},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Detect sends the encoded image to the model and returns the red frames it
// reports, converted to pixel rectangles for an image of width x height.
//
// The call honors ctx. It does not retry.
func (c *Client) Detect(ctx context.Context, img []byte, width, height int) ([]imaging.Rect, error) {
	if c.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := json.Marshal(c.buildRequest(img))
	if err != nil {
		return nil, fmt.Errorf("failed to encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, &Error{Kind: KindFormat, Err: err}
	}
	if len(chat.Choices) == 0 {
		return nil, &Error{Kind: KindFormat, Err: fmt.Errorf("response has no choices")}
	}

	boxes, err := ParseBoxes(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return ToRects(boxes, width, height), nil
}

func (c *Client) buildRequest(img []byte) chatRequest {
	return chatRequest{
		Model: c.model(),
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: DataURL(img)}},
			}},
		},
		MaxTokens: MaxTokens,
	}
}

func (c *Client) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

func (c *Client) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// DataURL encodes img as a base64 data URL, sniffing its MIME type.
func DataURL(img []byte) string {
	return "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// Box is one model box: [ymin, xmin, ymax, xmax] on a 0..Scale range.
type Box [4]float64

// ParseBoxes extracts the boxes array from a model reply. The reply may be
// wrapped in a ```json fence. A reply that parses but has no boxes array
// yields no boxes and no error.
func ParseBoxes(content string) ([]Box, error) {
	content = stripFence(content)

	var reply struct {
		Boxes json.RawMessage `json:"boxes"`
	}
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, &Error{Kind: KindFormat, Err: err}
	}

	var items []json.RawMessage
	if len(reply.Boxes) == 0 || json.Unmarshal(reply.Boxes, &items) != nil {
		return []Box{}, nil
	}

	boxes := make([]Box, 0, len(items))
	for i, item := range items {
		var coords []float64
		if err := json.Unmarshal(item, &coords); err != nil || len(coords) < 4 {
			return nil, &Error{Kind: KindFormat, Err: fmt.Errorf("box %d is not [ymin, xmin, ymax, xmax]", i)}
		}
		boxes = append(boxes, Box{coords[0], coords[1], coords[2], coords[3]})
	}
	return boxes, nil
}

func stripFence(s string) string {
	s = strings.ReplaceAll(s, "```json\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ToRects converts normalized boxes to pixel rectangles for an image of
// width x height. Values are rounded half up. No clamping is applied; the
// region store clamps on ingestion.
func ToRects(boxes []Box, width, height int) []imaging.Rect {
	rects := make([]imaging.Rect, 0, len(boxes))
	w, h := float64(width), float64(height)
	for _, b := range boxes {
		ymin, xmin, ymax, xmax := b[0], b[1], b[2], b[3]
		rects = append(rects, imaging.Rect{
			X: roundHalfUp(xmin / Scale * w),
			Y: roundHalfUp(ymin / Scale * h),
			W: roundHalfUp((xmax - xmin) / Scale * w),
			H: roundHalfUp((ymax - ymin) / Scale * h),
		})
	}
	return rects
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"time"
)

// EncodedImage is a PNG rendering of a buffer, ready to be returned to a client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes the buffer as PNG.
func EncodePNG(b *Buffer) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, b.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode returns the buffer as a base64 PNG payload.
func Encode(b *Buffer) (*EncodedImage, error) {
	data, err := EncodePNG(b)
	if err != nil {
		return nil, err
	}
	return &EncodedImage{
		Width:       b.Width,
		Height:      b.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// WritePNG encodes the buffer and writes it to path.
func WritePNG(path string, b *Buffer) error {
	data, err := EncodePNG(b)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// ExportName returns the default download name for a redacted image.
func ExportName(now time.Time) string {
	return fmt.Sprintf("mosaic-processed-%d.png", now.UnixMilli())
}

package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Source is a decoded image together with the bytes it was decoded from.
//
// The encoded bytes are kept because the vision service consumes the
// original file rather than the raster.
type Source struct {
	// Buffer is the decoded raster.
	Buffer *Buffer

	// Encoded holds the original file contents.
	Encoded []byte

	// Format is the decoder name reported by image.Decode ("png", "jpeg", ...).
	Format string
}

// Decode turns encoded image bytes into a Source.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP.
func Decode(data []byte) (*Source, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Source{
		Buffer:  FromImage(img),
		Encoded: data,
		Format:  format,
	}, nil
}

// LoadFile reads and decodes an image file without caching it.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return Decode(data)
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded sources keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy
// without disk I/O. Callers must treat the cached Buffer as read-only.
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Source
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Source),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (*Source, error) {
	c.mu.RLock()
	if src, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return src, nil
	}
	c.mu.RUnlock()

	src, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = src
	c.mu.Unlock()

	return src, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Source)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Path is the file the image was loaded from.
	Path string `json:"path"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that recognized the file: "png", "jpeg", "gif",
	// "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// HasAlpha indicates whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the encoded image in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// StrippedMetadata lists identifying EXIF tags in the source that the
	// PNG export does not carry over.
	StrippedMetadata []MetadataTag `json:"stripped_metadata,omitempty"`
}

// Info summarizes a loaded source.
func Info(path string, src *Source) *ImageInfo {
	hasAlpha := false
	pix := src.Buffer.Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0xFF {
			hasAlpha = true
			break
		}
	}
	return &ImageInfo{
		Path:          path,
		Width:         src.Buffer.Width,
		Height:        src.Buffer.Height,
		Format:        src.Format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: int64(len(src.Encoded)),

		StrippedMetadata: IdentifyingMetadata(src.Encoded),
	}
}

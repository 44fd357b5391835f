// Package imaging provides the pixel buffer shared by detection and rendering,
// plus image ingestion and export.
//
// All operations work on Buffer, a non-premultiplied RGBA raster whose origin
// is the top-left corner, X increasing rightward and Y increasing downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - A Rect {X, Y, W, H} covers [X, X+W) x [Y, Y+H)
//
// # Ingestion
//
// Decode accepts PNG, JPEG, GIF, BMP, TIFF and WebP data. Whatever the source
// color model, the result is converted to 8-bit non-premultiplied RGBA.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A Buffer is not: it is owned
// by its creator, and functions that transform it return a new Buffer.
//
// # Color Representation
//
// RGBColor is an 8-bit RGB triple. ParseColor accepts "#RRGGBB", "#RGB" and
// the swatch names in Swatches. Threshold implements the "is this pixel
// annotation red" predicate used by detection and by mosaic averaging.
//
// # Export
//
// EncodePNG and WritePNG produce lossless PNG output with exactly the
// dimensions of the input buffer.
package imaging

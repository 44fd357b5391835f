// Package redact renders the redaction transforms over a set of regions.
//
// A render pass takes the original image, the active regions and a
// Parameters snapshot, and returns a new buffer. Every region is first
// padded by Padding pixels on each side, clamped to the image. The pass then
// applies one of three transforms, chosen by Parameters.Mode:
//
//   - mosaic: each padded region is tiled into BlockSize squares aligned to
//     its top-left corner, and every tile is filled with the rounded mean
//     color of its non-transparent pixels.
//   - blur: the padded regions are replaced with a Gaussian blur of the
//     original, radius max(1, BlockSize/2).
//   - solid: the padded regions are blended toward a flat color at the
//     configured opacity.
//
// Rendering never reads its own output, so the same inputs always produce
// the same bytes.
package redact

// Package detection locates hand-drawn red annotation frames in an image.
//
// Users mark the areas they want hidden by drawing red rectangles over a
// screenshot. DetectRedBoxes turns the noisy per-pixel "is this red?"
// classification into a small set of bounding rectangles.
//
// # Algorithm Overview
//
//  1. Quantize: split the image into GridSize x GridSize cells; a cell is
//     flagged when any pixel in it is red (r > T.R, g < T.G, b < T.B)
//  2. Label: union-find over the grid, joining 8-connected flagged cells
//  3. Aggregate: grid-space bounding box per component root
//  4. Project: scale boxes back to pixels, clipped to the image
//  5. Filter: drop boxes whose width or height is at most one cell
//  6. Sort: order by (Y, X) so output never depends on traversal order
//
// The grid trades precision for robustness: an anti-aliased or broken stroke
// still forms one component as long as its gaps are smaller than a cell.
// Returned boxes are therefore accurate to within one GridSize.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Performance Considerations
//
// Detection is a single O(width*height) pixel scan followed by work linear
// in the number of grid cells.
package detection

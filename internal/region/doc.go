// Package region holds the rectangles queued for redaction and the manual
// drag-to-select state machine that produces them.
//
// Store is the single source of truth the renderer consumes. It is ordered,
// supports append, undo and clear, and is the ingestion boundary for
// geometry: rectangles are clamped to the image as they are added, so a
// stored rectangle is always non-empty and inside the buffer.
//
// Selector implements the two-state (idle, dragging) selection flow. Pointer
// positions arrive in display space and are scaled to buffer pixels with a
// Viewport before the selector sees them.
package region

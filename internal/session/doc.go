// Package session ties detection, the region store and rendering together
// into one interactive redaction workflow.
//
// A Session holds the original image and derives everything else from it.
// Any change to the regions or the render parameters triggers a full
// re-render from the original. Only the most recent render and the most
// recent vision request are allowed to commit; older ones are cancelled and
// report ErrSuperseded.
package session

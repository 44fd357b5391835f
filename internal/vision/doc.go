// Package vision locates red annotation frames with a hosted vision model.
//
// The model is reached through an OpenAI-compatible chat completions API.
// It replies with boxes as [ymin, xmin, ymax, xmax] on a 0-1000 scale, which
// ToRects maps to pixel rectangles of the target image.
//
// Failures are reported as *Error values that match ErrNetworkFailure or
// ErrInvalidResponseFormat under errors.Is.
package vision

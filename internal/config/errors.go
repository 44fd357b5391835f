package config

import "errors"

// Configuration errors. Validate returns these wrapped with the offending
// value so callers can match them with errors.Is.
var (
	ErrConfigNotFound    = errors.New("configuration file not found")
	ErrInvalidGridSize   = errors.New("invalid grid size: must be at least 1")
	ErrInvalidThreshold  = errors.New("invalid red threshold: channels must be 0-255")
	ErrInvalidStyle      = errors.New("invalid style: must be pixelate or blur")
	ErrInvalidBlockSize  = errors.New("invalid block size: must be between 2 and 50")
	ErrInvalidOpacity    = errors.New("invalid opacity: must be between 0 and 1")
	ErrInvalidSolidColor = errors.New("invalid solid color")
	ErrInvalidTimeout    = errors.New("invalid vision timeout: must be positive")
	ErrInvalidEndpoint   = errors.New("invalid vision endpoint: must be an http or https URL")
)

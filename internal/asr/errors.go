package asr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSpeech indicates a transcription succeeded but produced no usable text.
var ErrNoSpeech = errors.New("no speech detected in audio")

// ConfigError indicates a missing or invalid client configuration value.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("transcription config error: %s", e.Reason)
}

// RemoteAPIError indicates the hosted endpoint returned a non-success status.
type RemoteAPIError struct {
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("transcription API error: status %d: %s", e.StatusCode, e.Body)
}

// ResponseFormatError indicates a response body that could not be parsed.
type ResponseFormatError struct {
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("malformed transcription response: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

// NoLocalBackendError indicates every local endpoint candidate failed.
type NoLocalBackendError struct {
	Endpoints []string
}

func (e *NoLocalBackendError) Error() string {
	return fmt.Sprintf("no local transcription backend found, tried: %s", strings.Join(e.Endpoints, ", "))
}

package translate

import (
	"errors"
	"fmt"
)

// Direction identifies which of the two supported language pairs a
// translation targets.
type Direction int

const (
	// EsToEn translates Spanish to English.
	EsToEn Direction = iota
	// EnToEs translates English to Spanish.
	EnToEs
)

// ErrInvalidDirection indicates an unrecognized direction token.
var ErrInvalidDirection = errors.New("invalid direction, use 'es-en' or 'en-es'")

// ParseDirection parses the textual tokens "es-en" and "en-es".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "es-en":
		return EsToEn, nil
	case "en-es":
		return EnToEs, nil
	default:
		return 0, ErrInvalidDirection
	}
}

func (d Direction) String() string {
	switch d {
	case EsToEn:
		return "es-en"
	case EnToEs:
		return "en-es"
	default:
		return "unknown"
	}
}

// Request is a translation request.
type Request struct {
	Text      string
	Direction Direction
}

// Source records which backend produced a translation.
type Source string

const (
	// SourceNone means no backend was consulted (empty input).
	SourceNone Source = ""
	// SourceModel means the external inference backend produced the text.
	SourceModel Source = "model"
	// SourceDictionary means the fallback phrase table produced the text.
	SourceDictionary Source = "dictionary"
)

// Result is a completed translation. Source is informational only and is
// not part of the external contract.
type Result struct {
	Text   string
	Source Source
}

// ModelNotFoundError indicates the translation model path does not exist.
type ModelNotFoundError struct {
	Path string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("translation model not found at %s, download the model first", e.Path)
}

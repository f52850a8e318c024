// Package errors provides custom error types for codexside.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrEmptyPrompt        = errors.New("prompt is empty")
	ErrRunInProgress      = errors.New("a run is already in progress")
	ErrNoCurrentNote      = errors.New("no current note")
	ErrSpawnFailed        = errors.New("failed to start process")
	ErrPDFTooLarge        = errors.New("PDF too large (over 16 MB)")
	ErrAttachmentTooLarge = errors.New("attachment too large")
	ErrOutsideVault       = errors.New("path is outside the vault")
)

// SpawnError represents a failure to start the external executable
type SpawnError struct {
	Executable string
	Err        error
	NotFound   bool
}

func (e *SpawnError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("spawn %s ENOENT: executable not found", e.Executable)
	}
	if e.Err == nil {
		return fmt.Sprintf("spawn %s: failed to start", e.Executable)
	}
	return fmt.Sprintf("spawn %s: %v", e.Executable, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *SpawnError) Is(target error) bool {
	if target == ErrSpawnFailed {
		return true
	}
	_, ok := target.(*SpawnError)
	return ok
}

// NewSpawnError creates a new SpawnError
func NewSpawnError(executable string, err error, notFound bool) *SpawnError {
	return &SpawnError{Executable: executable, Err: err, NotFound: notFound}
}

// PDFError represents a PDF-to-text conversion failure
type PDFError struct {
	Message string
	Err     error
}

func (e *PDFError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdf error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("pdf error: %s", e.Message)
}

func (e *PDFError) Unwrap() error {
	return e.Err
}

// NewPDFError creates a new PDFError
func NewPDFError(message string, err error) *PDFError {
	return &PDFError{Message: message, Err: err}
}

// ConfigError represents a failure to load or parse the settings file
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error at %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(path string, err error) *ConfigError {
	return &ConfigError{Path: path, Err: err}
}

// SpawnFailure classifies a start failure for the hint shown to the user.
type SpawnFailure int

const (
	// SpawnFailureGeneric is any start failure other than a missing executable.
	SpawnFailureGeneric SpawnFailure = iota
	// SpawnFailureNotFound means the executable could not be located.
	SpawnFailureNotFound
)

// notFoundMarkers are matched case-insensitively against error text.
var notFoundMarkers = []string{"enoent", "not found", "no such file"}

// ClassifySpawnFailure classifies raw error text by substring match.
func ClassifySpawnFailure(text string) SpawnFailure {
	lower := strings.ToLower(text)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			return SpawnFailureNotFound
		}
	}
	return SpawnFailureGeneric
}

// IsSpawnError checks if the error is a process start failure
func IsSpawnError(err error) bool {
	return errors.Is(err, ErrSpawnFailed)
}

// IsNotFoundError checks if the error means the executable was not found.
// Typed SpawnErrors are checked first, then the error text.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var spawnErr *SpawnError
	if errors.As(err, &spawnErr) && spawnErr.NotFound {
		return true
	}
	return ClassifySpawnFailure(err.Error()) == SpawnFailureNotFound
}

// IsPDFError checks if the error came from the PDF collaborator
func IsPDFError(err error) bool {
	if errors.Is(err, ErrPDFTooLarge) {
		return true
	}
	var pdfErr *PDFError
	return errors.As(err, &pdfErr)
}

// IsConfigError checks if the error is a settings load failure
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

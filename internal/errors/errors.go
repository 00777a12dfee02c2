package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrProfileNotFound       = errors.New("profile not found")
	ErrProfileExists         = errors.New("profile already exists")
	ErrActiveProfile         = errors.New("profile is active")
	ErrNoActiveProfile       = errors.New("no active profile")
	ErrUnsupportedResource   = errors.New("resource kind not supported by harness")
	ErrUnsafePath            = errors.New("path escapes target directory")
	ErrMissingEnvVar         = errors.New("required environment variable not set")
	ErrHarnessNotInstalled   = errors.New("harness not installed")
	ErrInvalidProfileName    = errors.New("invalid profile name")
	ErrInvalidComponentName  = errors.New("invalid component name")
	ErrComponentNotInstalled = errors.New("component not installed")
)

// ProfileError wraps errors with harness and profile context
type ProfileError struct {
	Harness string
	Profile string
	Op      string
	Err     error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %s/%s: %s: %v", e.Harness, e.Profile, e.Op, e.Err)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// NewProfileError creates a new profile error
func NewProfileError(harness, profile, op string, err error) *ProfileError {
	return &ProfileError{Harness: harness, Profile: profile, Op: op, Err: err}
}

// PathError wraps errors with the offending path
type PathError struct {
	Path string
	Op   string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new path error
func NewPathError(path, op string, err error) *PathError {
	return &PathError{Path: path, Op: op, Err: err}
}

// ParseError wraps a malformed native config file
type ParseError struct {
	Path   string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.Path, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new parse error
func NewParseError(path, format string, err error) *ParseError {
	return &ParseError{Path: path, Format: format, Err: err}
}

// EnvVarError reports environment variables a connector needs but
// which are absent at installation time.
type EnvVarError struct {
	Connector string
	Missing   []string
}

func (e *EnvVarError) Error() string {
	return fmt.Sprintf("connector %s: missing environment variables: %v", e.Connector, e.Missing)
}

func (e *EnvVarError) Unwrap() error {
	return ErrMissingEnvVar
}

// NewEnvVarError creates a new env var error
func NewEnvVarError(connector string, missing []string) *EnvVarError {
	return &EnvVarError{Connector: connector, Missing: missing}
}

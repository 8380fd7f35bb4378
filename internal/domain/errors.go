package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store failures so callers can pick a specific diagnostic.
type ErrorKind string

const (
	KindUnknown    ErrorKind = "unknown"
	KindResolve    ErrorKind = "resolve"
	KindNotFound   ErrorKind = "not_found"
	KindOpen       ErrorKind = "open"
	KindRead       ErrorKind = "read"
	KindParse      ErrorKind = "parse"
	KindWrite      ErrorKind = "write"
	KindSave       ErrorKind = "save"
	KindValidation ErrorKind = "validation"
)

// PathResolutionError reports that a store location could not be determined.
type PathResolutionError struct {
	Store string
	Mode  string
	Err   error
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("resolve %s location (%s mode): %v", e.Store, e.Mode, e.Err)
}

func (e *PathResolutionError) Unwrap() error { return e.Err }

// IoError wraps a filesystem failure together with the operation and path.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// ParseError reports malformed or wrongly shaped serialized content.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError is the user-facing error returned by config operations.
type ConfigError struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	msg := configMessages[e.Kind]
	if msg == "" {
		msg = "config operation failed"
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s config: %s", e.Op, msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var configMessages = map[ErrorKind]string{
	KindResolve:    "cannot determine config location",
	KindNotFound:   "path does not exist",
	KindOpen:       "cannot open file",
	KindRead:       "cannot read file",
	KindParse:      "file is not a valid configuration",
	KindWrite:      "cannot write file",
	KindSave:       "failed to save configuration",
	KindValidation: "configuration is inconsistent",
}

// HistoryError wraps persistence failures of history operations.
type HistoryError struct {
	Op  string
	Err error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("%s history: %v", e.Op, e.Err)
}

func (e *HistoryError) Unwrap() error { return e.Err }

// KindOf extracts the most specific ErrorKind found in err's chain.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Kind
	}
	var resolveErr *PathResolutionError
	if errors.As(err, &resolveErr) {
		return KindResolve
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return KindParse
	}
	var ioErr *IoError
	if errors.As(err, &ioErr) {
		switch ioErr.Op {
		case "open":
			return KindOpen
		case "read":
			return KindRead
		default:
			return KindWrite
		}
	}
	return KindUnknown
}

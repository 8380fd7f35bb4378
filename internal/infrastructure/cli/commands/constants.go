package commands

import "github.com/doeshing/readerstate/internal/domain"

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Listing defaults
const (
	DefaultHistoryLimit      = domain.DefaultHistoryLimit
	DefaultHistoryStatsLimit = domain.DefaultHistoryStatsLimit
)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrUnsupportedFormat        = "unsupported format %q (want json|yaml)"
	ErrModelFieldsRequired      = "--name is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoModelsConfigured       = "No models configured."
	MsgCancelled                = "Cancelled."
)

package domain

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for stored records (rw-------).
	// config.json carries API keys.
	SecureFilePermissions = 0o600
)

// Store names. The resolved file name is the store name plus ".json".
const (
	ConfigStoreName  = "config"
	HistoryStoreName = "pdf-history"
)

// History constants
const (
	// MaxHistoryItems caps the recently opened list.
	MaxHistoryItems = 50
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistoryStatsLimit is the number of documents shown by history stats
	DefaultHistoryStatsLimit = 10
)

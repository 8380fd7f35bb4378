package assets

import (
	_ "embed"
)

// DefaultConfigJSON contains the embedded default settings record.
//
//go:embed defaults/config.json
var DefaultConfigJSON []byte

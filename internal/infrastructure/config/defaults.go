package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/doeshing/readerstate/assets"
	"github.com/doeshing/readerstate/internal/domain"
)

var (
	defaultsOnce sync.Once
	defaultsVal  domain.Config
)

// DefaultConfig returns a fresh copy of the built-in settings record.
func DefaultConfig() domain.Config {
	defaultsOnce.Do(func() {
		if err := json.Unmarshal(assets.DefaultConfigJSON, &defaultsVal); err != nil {
			panic(fmt.Sprintf("embedded default config is invalid: %v", err))
		}
	})
	cfg := defaultsVal
	cfg.AIModels = append([]domain.AIModel{}, defaultsVal.AIModels...)
	return cfg
}

func normalize(cfg *domain.Config) {
	if cfg.AIModels == nil {
		cfg.AIModels = []domain.AIModel{}
	}
}

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/readerstate/internal/domain"
)

// MaxSelectionOpacity is the upper bound of selectionOpacity (percent).
const MaxSelectionOpacity = 100

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate ensures the settings record is consistent before a user-driven save.
func Validate(cfg domain.Config) error {
	if err := validateModels(cfg.AIModels); err != nil {
		return err
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateActive(cfg); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.TranslateTargetLang) == "" {
		return errors.New("translateTargetLang must be set")
	}
	if !hexColor.MatchString(cfg.TextSelectionColor) {
		return fmt.Errorf("textSelectionColor must look like #rrggbb, got %q", cfg.TextSelectionColor)
	}
	if cfg.SelectionOpacity > MaxSelectionOpacity {
		return fmt.Errorf("selectionOpacity must be between 0 and %d, got %d", MaxSelectionOpacity, cfg.SelectionOpacity)
	}
	return nil
}

// AsConfigError wraps a validation failure for callers expecting the config error taxonomy.
func AsConfigError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.ConfigError{Op: op, Kind: domain.KindValidation, Err: err}
}

func validateModels(models []domain.AIModel) error {
	for i, model := range models {
		if strings.TrimSpace(model.ID) == "" {
			return fmt.Errorf("aiModels[%d].id must be set", i)
		}
		if strings.TrimSpace(model.Name) == "" {
			return fmt.Errorf("model %s: name must be set", model.ID)
		}
	}
	return nil
}

func validateActive(cfg domain.Config) error {
	if model, ok := cfg.ActiveModel(domain.ModelKindChat); ok && !model.SupportsChat {
		return fmt.Errorf("active chat model %s does not support chat", model.ID)
	}
	if model, ok := cfg.ActiveModel(domain.ModelKindTranslate); ok && !model.SupportsTranslation {
		return fmt.Errorf("active translate model %s does not support translation", model.ID)
	}
	return nil
}

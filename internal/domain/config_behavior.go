package domain

import "fmt"

// FindModel searches for a model by its id.
func (c *Config) FindModel(id string) (AIModel, bool) {
	for _, model := range c.AIModels {
		if model.ID == id {
			return model, true
		}
	}
	return AIModel{}, false
}

// HasModel checks if a model with the given id exists in the configuration
func (c *Config) HasModel(id string) bool {
	_, exists := c.FindModel(id)
	return exists
}

// UpsertModel replaces the model sharing the same id in place, or appends it.
// It reports whether an existing model was replaced.
func (c *Config) UpsertModel(model AIModel) (bool, error) {
	if model.ID == "" {
		return false, fmt.Errorf("model id must not be empty")
	}
	for i := range c.AIModels {
		if c.AIModels[i].ID == model.ID {
			c.AIModels[i] = model
			return true, nil
		}
	}
	c.AIModels = append(c.AIModels, model)
	return false, nil
}

// RemoveModel removes a model by id.
// Active chat/translate selections pointing at the removed model are cleared.
func (c *Config) RemoveModel(id string) error {
	indexToRemove := -1
	for i, model := range c.AIModels {
		if model.ID == id {
			indexToRemove = i
			break
		}
	}

	if indexToRemove == -1 {
		return fmt.Errorf("model %s not found", id)
	}

	c.AIModels = append(c.AIModels[:indexToRemove], c.AIModels[indexToRemove+1:]...)

	if c.ActiveChatModel == id {
		c.ActiveChatModel = ""
	}
	if c.ActiveTranslateModel == id {
		c.ActiveTranslateModel = ""
	}
	return nil
}

// ActiveModel returns the model currently selected for kind.
func (c *Config) ActiveModel(kind ModelKind) (AIModel, bool) {
	id := c.activeID(kind)
	if id == "" {
		return AIModel{}, false
	}
	return c.FindModel(id)
}

// SetActiveModel selects the model used for kind.
// The model must exist and advertise support for kind.
func (c *Config) SetActiveModel(kind ModelKind, id string) error {
	model, ok := c.FindModel(id)
	if !ok {
		return fmt.Errorf("cannot activate model %s: model does not exist", id)
	}
	if !model.Supports(kind) {
		return fmt.Errorf("model %s does not support %s", id, kind)
	}

	switch kind {
	case ModelKindChat:
		c.ActiveChatModel = id
	case ModelKindTranslate:
		c.ActiveTranslateModel = id
	default:
		return fmt.Errorf("unknown model kind %q", kind)
	}
	return nil
}

func (c *Config) activeID(kind ModelKind) string {
	switch kind {
	case ModelKindChat:
		return c.ActiveChatModel
	case ModelKindTranslate:
		return c.ActiveTranslateModel
	default:
		return ""
	}
}

// ValidateConsistency checks that active selections reference configured models.
func (c *Config) ValidateConsistency() error {
	seen := make(map[string]struct{}, len(c.AIModels))
	for _, model := range c.AIModels {
		if _, dup := seen[model.ID]; dup {
			return fmt.Errorf("duplicate model id %s", model.ID)
		}
		seen[model.ID] = struct{}{}
	}

	if c.ActiveChatModel != "" && !c.HasModel(c.ActiveChatModel) {
		return fmt.Errorf("active chat model %s does not exist in models list", c.ActiveChatModel)
	}
	if c.ActiveTranslateModel != "" && !c.HasModel(c.ActiveTranslateModel) {
		return fmt.Errorf("active translate model %s does not exist in models list", c.ActiveTranslateModel)
	}
	return nil
}

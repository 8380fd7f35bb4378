package domain

// Config mirrors config.json. Every field is always populated; absent keys keep
// their default value when the file is decoded.
type Config struct {
	AIModels                   []AIModel `json:"aiModels" yaml:"aiModels"`
	ActiveChatModel            string    `json:"activeChatModel" yaml:"activeChatModel"`
	ActiveTranslateModel       string    `json:"activeTranslateModel" yaml:"activeTranslateModel"`
	TranslateTargetLang        string    `json:"translateTargetLang" yaml:"translateTargetLang"`
	AutoSaveSettings           bool      `json:"autoSaveSettings" yaml:"autoSaveSettings"`
	EnableSelectionTranslation bool      `json:"enableSelectionTranslation" yaml:"enableSelectionTranslation"`
	TextSelectionColor         string    `json:"textSelectionColor" yaml:"textSelectionColor"`
	SelectionOpacity           uint32    `json:"selectionOpacity" yaml:"selectionOpacity"`
	ChatPrompt                 string    `json:"chatPrompt" yaml:"chatPrompt"`
	TranslationPrompt          string    `json:"translationPrompt" yaml:"translationPrompt"`
}

// AIModel describes one configured model backend.
type AIModel struct {
	ID                  string `json:"id" yaml:"id"`
	Name                string `json:"name" yaml:"name"`
	ModelID             string `json:"modelId" yaml:"modelId"`
	APIEndpoint         string `json:"apiEndpoint" yaml:"apiEndpoint"`
	APIKey              string `json:"apiKey" yaml:"apiKey"`
	SupportsChat        bool   `json:"supportsChat" yaml:"supportsChat"`
	SupportsTranslation bool   `json:"supportsTranslation" yaml:"supportsTranslation"`
}

// ModelKind selects which active model slot an operation targets.
type ModelKind string

const (
	ModelKindChat      ModelKind = "chat"
	ModelKindTranslate ModelKind = "translate"
)

// Supports reports whether the model can serve the given kind.
func (m AIModel) Supports(kind ModelKind) bool {
	switch kind {
	case ModelKindChat:
		return m.SupportsChat
	case ModelKindTranslate:
		return m.SupportsTranslation
	default:
		return false
	}
}

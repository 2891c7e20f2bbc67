package ai

// Message roles stored in chat_messages and sent to providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a provider-agnostic chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContextBlock is a structured note fragment injected into the prompt
// preamble. BlockType is one of "todo", "done", or anything else for a plain
// bullet.
type ContextBlock struct {
	Content   string `json:"content"`
	BlockType string `json:"block_type"`
}

// SendRequest is the chat dispatch input.
type SendRequest struct {
	Message       string         `json:"message"`
	Model         string         `json:"model" validate:"required"`
	ContextBlocks []ContextBlock `json:"context_blocks,omitempty"`
	SessionID     string         `json:"session_id,omitempty"`
}

// SendResult is the chat dispatch output.
type SendResult struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// SessionSummary is one entry in the session listing.
type SessionSummary struct {
	UUID         string `json:"uuid"`
	Title        string `json:"title"`
	Preview      string `json:"preview"`
	CreatedAt    string `json:"created_at"`
	ModifiedAt   string `json:"modified_at"`
	MessageCount int64  `json:"message_count"`
}

// SessionMessage is one message in a session detail.
type SessionMessage struct {
	UUID      string `json:"uuid"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// SessionDetail is a session with its ordered messages.
type SessionDetail struct {
	UUID       string           `json:"uuid"`
	Title      string           `json:"title"`
	CreatedAt  string           `json:"created_at"`
	ModifiedAt string           `json:"modified_at"`
	Messages   []SessionMessage `json:"messages"`
}

// ProviderModelInfo describes one model in the settings snapshot.
type ProviderModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// ProviderInfo describes one provider in the settings snapshot.
type ProviderInfo struct {
	Name    string              `json:"name"`
	BaseURL string              `json:"base_url,omitempty"`
	Models  []ProviderModelInfo `json:"models"`
}

// ProviderConfigInfo is the per-provider configuration summary. The API key
// itself is never exposed, only its presence.
type ProviderConfigInfo struct {
	IsEnabled     bool     `json:"is_enabled"`
	HasAPIKey     bool     `json:"has_api_key"`
	EnabledModels []string `json:"enabled_models"`
}

// SettingsSnapshot is the settings GET payload.
type SettingsSnapshot struct {
	Providers       []ProviderInfo                `json:"providers"`
	CurrentModel    string                        `json:"current_model"`
	ProviderConfigs map[string]ProviderConfigInfo `json:"provider_configs"`
}

// ProviderConfigUpdate is the per-provider section of a settings update.
type ProviderConfigUpdate struct {
	IsEnabled     bool     `json:"is_enabled"`
	EnabledModels []string `json:"enabled_models"`
}

// UpdateSettingsRequest is the settings POST payload. Unknown provider and
// model names are tolerated: they are logged and skipped, never rejected.
type UpdateSettingsRequest struct {
	Provider        string                          `json:"provider"`
	Model           string                          `json:"model"`
	APIKeys         map[string]string               `json:"api_keys,omitempty"`
	ProviderConfigs map[string]ProviderConfigUpdate `json:"provider_configs,omitempty"`
}

package types

type Provider struct {
	ID           string `json:"id"`
	ProviderName string `json:"provider_name"`
	BaseURL      string `json:"base_url"`
	APIKey       string `json:"api_key,omitempty"`
	Enabled      bool   `json:"enabled"`
}

type ModelCatalogEntry struct {
	ID         string `json:"id"`
	ProviderID string `json:"provider_id"`
	ModelName  string `json:"model_name"`
	Kind       string `json:"kind,omitempty"`
}

type RuntimeProfile struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	LLMModelID       string         `json:"llm_model_id,omitempty"`
	EmbeddingModelID string         `json:"embedding_model_id,omitempty"`
	RerankerModelID  string         `json:"reranker_model_id,omitempty"`
	Params           map[string]any `json:"params,omitempty"`
	IsDefault        bool           `json:"is_default"`
}

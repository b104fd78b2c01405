package types

// State represents the lifecycle state reported by the readiness probe.
type State string

const (
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateError        State = "error"
)

// Resolution is the outcome of resolving an adapter reference: a local
// directory the engine can load plus a stable numeric identifier.
type Resolution struct {
	// Adapter reference as supplied by the caller.
	// example: acme/helper-v1
	Name string `json:"name" example:"acme/helper-v1"`
	// Absolute path to the adapter's local directory.
	// example: /var/cache/huggingface/acme_helper-v1
	LocalPath string `json:"local_path" example:"/var/cache/huggingface/acme_helper-v1"`
	// Deterministic positive identifier in the 31-bit range.
	// Same reference always yields the same ID, across restarts.
	// example: 913287461
	ID int64 `json:"id" example:"913287461"`
}

// ServeOverrides is a per-model override record applied to engine startup
// arguments. The zero value means "serve as a default chat model".
type ServeOverrides struct {
	// Engine runner mode (e.g., "pooling" for rerankers). Empty keeps the default.
	// example: pooling
	Runner string `json:"runner,omitempty" example:"pooling"`
	// Raw model-config overrides forwarded to the engine as JSON.
	HFOverrides map[string]any `json:"hf_overrides,omitempty"`
	// Whether adapter (LoRA) loading is enabled for this model.
	// example: true
	EnableLoRA bool `json:"enable_lora" example:"true"`
	// Whether automatic tool-choice parsing is enabled for this model.
	// example: false
	EnableToolChoice bool `json:"enable_tool_choice" example:"false"`
}

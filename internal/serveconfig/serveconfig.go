// Package serveconfig maps model identifiers to serve-time override records.
// The table is immutable; models without an entry are served with the default
// profile (chat model, adapters enabled, auto tool choice).
package serveconfig

import "vllmd/pkg/types"

// qwen3RerankerHFOverrides makes the engine load official Qwen3-Reranker
// checkpoints as sequence classification models.
var qwen3RerankerHFOverrides = map[string]any{
	"architectures":              []string{"Qwen3ForSequenceClassification"},
	"classifier_from_token":      []string{"no", "yes"},
	"is_original_qwen3_reranker": true,
}

// reranker produces the pooling/reranker profile: adapters supported,
// no tool choice, served through /v1/rerank.
func reranker(hfOverrides map[string]any) types.ServeOverrides {
	return types.ServeOverrides{
		Runner:           "pooling",
		HFOverrides:      hfOverrides,
		EnableLoRA:       true,
		EnableToolChoice: false,
	}
}

var overrides = map[string]types.ServeOverrides{
	"Qwen/Qwen3-Reranker-0.6B": reranker(qwen3RerankerHFOverrides),
	"Qwen/Qwen3-Reranker-4B":   reranker(qwen3RerankerHFOverrides),
	"Qwen/Qwen3-Reranker-8B":   reranker(qwen3RerankerHFOverrides),
}

// Lookup returns the override record for modelID, or false when the model
// should be served with the default profile.
func Lookup(modelID string) (types.ServeOverrides, bool) {
	ov, ok := overrides[modelID]
	return ov, ok
}

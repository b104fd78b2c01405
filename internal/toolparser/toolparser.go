// Package toolparser selects the engine's tool-call parser for a model.
package toolparser

import "strings"

// mapping pairs a lowercase model-ID substring with a parser name.
// Order matters: specific variants must precede their family prefix
// (granite-20b-functioncalling before granite-).
type mapping struct {
	pattern string
	parser  string
}

var mappings = []mapping{
	{"nousresearch/hermes-", "hermes"},
	{"mistralai/mistral-", "mistral"},
	{"meta-llama/llama-4", "llama4_pythonic"},
	{"meta-llama/llama-3.1", "llama3_json"},
	{"meta-llama/llama-3.2", "llama3_json"},
	{"ibm-granite/granite-20b-functioncalling", "granite-20b-fc"},
	{"ibm-granite/granite-", "granite"},
	{"internlm/internlm2_5-", "internlm"},
	{"internlm/internlm2.5-", "internlm"},
	{"ai21labs/ai21-jamba-", "jamba"},
	{"salesforce/llama-xlam-", "xlam"},
	{"salesforce/xlam-", "xlam"},
	{"salesforce/qwen-xlam-", "xlam"},
	// Qwen models use the hermes parser
	{"qwen/qwen2.5-", "hermes"},
	{"qwen/qwq-", "hermes"},
	{"minimaxai/minimax-m1-", "minimax_m1"},
	{"deepseek-ai/deepseek-v3-", "deepseek_v3"},
	{"deepseek-ai/deepseek-r1-", "deepseek_v3"},
	{"moonshotai/kimi-k2-", "kimi_k2"},
	{"tencent/hunyuan-a13b-", "hunyuan_a13b"},
}

// Infer returns the parser name for modelID, matched case-insensitively.
// The second return is false when no parser is known for the model.
func Infer(modelID string) (string, bool) {
	lower := strings.ToLower(modelID)
	for _, m := range mappings {
		if strings.Contains(lower, m.pattern) {
			return m.parser, true
		}
	}
	return "", false
}

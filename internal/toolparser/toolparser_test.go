package toolparser

import "testing"

func TestInfer(t *testing.T) {
	cases := []struct {
		modelID string
		parser  string
		ok      bool
	}{
		{"NousResearch/Hermes-3-Llama-3.1-8B", "hermes", true},
		{"mistralai/Mistral-7B-Instruct-v0.3", "mistral", true},
		{"meta-llama/Llama-4-Scout-17B", "llama4_pythonic", true},
		{"meta-llama/Llama-3.1-8B-Instruct", "llama3_json", true},
		{"meta-llama/Llama-3.2-1B-Instruct", "llama3_json", true},
		{"ibm-granite/granite-20b-functioncalling", "granite-20b-fc", true},
		{"ibm-granite/granite-3.0-8b-instruct", "granite", true},
		{"internlm/internlm2_5-7b-chat", "internlm", true},
		{"ai21labs/AI21-Jamba-1.5-Mini", "jamba", true},
		{"Salesforce/xLAM-8x7b-r", "xlam", true},
		{"Qwen/Qwen2.5-7B-Instruct", "hermes", true},
		{"Qwen/QwQ-32B", "hermes", true},
		{"MiniMaxAI/MiniMax-M1-80k", "minimax_m1", true},
		{"deepseek-ai/DeepSeek-V3-0324", "deepseek_v3", true},
		{"deepseek-ai/DeepSeek-R1-0528", "deepseek_v3", true},
		{"moonshotai/Kimi-K2-Instruct", "kimi_k2", true},
		{"tencent/Hunyuan-A13B-Instruct", "hunyuan_a13b", true},
		{"meta-llama/Llama-2-7b-hf", "", false},
		{"acme/some-model", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		parser, ok := Infer(tc.modelID)
		if ok != tc.ok || parser != tc.parser {
			t.Fatalf("Infer(%q) = %q,%v; want %q,%v", tc.modelID, parser, ok, tc.parser, tc.ok)
		}
	}
}

func TestInferSpecificBeforeFamily(t *testing.T) {
	// the 20b functioncalling variant must not fall through to the granite family parser
	parser, ok := Infer("ibm-granite/granite-20b-functioncalling")
	if !ok || parser != "granite-20b-fc" {
		t.Fatalf("got %q,%v", parser, ok)
	}
}

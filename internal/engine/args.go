package engine

import (
	"encoding/json"
	"strconv"

	"vllmd/internal/config"
	"vllmd/internal/serveconfig"
	"vllmd/internal/toolparser"
	"vllmd/pkg/types"
)

// BuildArgs assembles the engine command line for the given configuration.
// The result is deterministic for a given Config so it can be logged and
// compared across restarts. Per-model serve overrides and tool-call parser
// inference are applied here; the caller only execs EngineBin with the
// returned argv.
func BuildArgs(cfg config.Config) []string {
	ov, found := serveconfig.Lookup(cfg.ModelID)
	if !found {
		// Default chat profile: adapters on, tool choice governed by config.
		ov.EnableLoRA = true
		ov.EnableToolChoice = true
	}

	args := []string{
		"serve", cfg.ModelID,
		"--host", cfg.Host,
		"--port", strconv.Itoa(cfg.Port),
	}

	if ov.EnableLoRA {
		args = append(args,
			"--enable-lora",
			"--max-loras", strconv.Itoa(cfg.MaxAdapters),
			"--max-lora-rank", strconv.Itoa(cfg.MaxAdapterRank),
			"--max-cpu-loras", strconv.Itoa(cfg.MaxCPUAdapters),
		)
	}

	args = append(args,
		"--trust-remote-code",
		"--gpu-memory-utilization", "0.8",
		"--download-dir", cfg.CacheDir,
	)

	if ov.Runner != "" {
		args = append(args, "--runner", ov.Runner)
	}
	if len(ov.HFOverrides) > 0 {
		// json.Marshal sorts map keys, so the flag value is stable.
		b, err := json.Marshal(ov.HFOverrides)
		if err == nil {
			args = append(args, "--hf-overrides", string(b))
		}
	}
	if cfg.APIKey != "" {
		args = append(args, "--api-key", cfg.APIKey)
	}

	if mm := multimodalLimits(cfg); len(mm) > 0 {
		b, _ := json.Marshal(mm)
		args = append(args, "--limit-mm-per-prompt", string(b))
	}

	args = append(args, toolChoiceArgs(cfg, ov)...)
	return args
}

func multimodalLimits(cfg config.Config) map[string]int {
	mm := make(map[string]int)
	if cfg.MaxImagesPerPrompt > 0 {
		mm["image"] = cfg.MaxImagesPerPrompt
	}
	if cfg.MaxVideosPerPrompt > 0 {
		mm["video"] = cfg.MaxVideosPerPrompt
	}
	if cfg.MaxAudiosPerPrompt > 0 {
		mm["audio"] = cfg.MaxAudiosPerPrompt
	}
	return mm
}

// toolChoiceArgs resolves the tool-choice flags. An explicitly configured
// parser always wins over inference, and is still forwarded even when
// automatic tool choice is off. Models whose serve profile disables tool
// choice (rerankers) get neither flag.
func toolChoiceArgs(cfg config.Config, ov types.ServeOverrides) []string {
	if !ov.EnableToolChoice {
		return nil
	}
	if cfg.EnableAutoToolChoice {
		out := []string{"--enable-auto-tool-choice"}
		parser := cfg.ToolCallParser
		if parser == "" {
			parser, _ = toolparser.Infer(cfg.ModelID)
		}
		if parser != "" {
			out = append(out, "--tool-call-parser", parser)
		}
		return out
	}
	if cfg.ToolCallParser != "" {
		return []string{"--tool-call-parser", cfg.ToolCallParser}
	}
	return nil
}

package resolver

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
)

// readTokenizerConfig parses a tokenizer_config.json. Missing files and
// malformed documents yield an empty mapping with a logged warning; this
// boundary never returns an error.
func (r *Resolver) readTokenizerConfig(path string) map[string]any {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Warn().Err(err).Str("path", path).Msg("failed to read tokenizer config")
		}
		return map[string]any{}
	}
	var cfg map[string]any
	if err := json.Unmarshal(b, &cfg); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failed to parse tokenizer config")
		return map[string]any{}
	}
	if cfg == nil {
		cfg = map[string]any{}
	}
	return cfg
}

// writeTokenizerConfig serializes cfg back as indented JSON with HTML
// escaping off so template text and non-ASCII content survive round-trips.
// Returns false (with a warning) on failure instead of raising.
func (r *Resolver) writeTokenizerConfig(path string, cfg map[string]any) bool {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failed to encode tokenizer config")
		return false
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		r.log.Warn().Err(err).Str("path", path).Msg("failed to write tokenizer config")
		return false
	}
	return true
}

// readTemplateFile reads a standalone chat template file if present.
// Same failure-swallowing contract as readTokenizerConfig.
func (r *Resolver) readTemplateFile(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Warn().Err(err).Str("path", path).Msg("failed to read chat template file")
		}
		return "", false
	}
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}

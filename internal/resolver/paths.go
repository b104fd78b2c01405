package resolver

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenizerConfigFile = "tokenizer_config.json"
	chatTemplateFile    = "chat_template.jinja"
	chatTemplateKey     = "chat_template"
)

// AdapterDir maps an adapter reference to its directory under cacheRoot.
// Path separators in the reference are replaced so one reference owns
// exactly one directory ("acme/helper-v1" -> "acme_helper-v1").
func AdapterDir(cacheRoot, adapterRef string) string {
	return filepath.Join(cacheRoot, strings.ReplaceAll(adapterRef, "/", "_"))
}

// BaseSnapshotDir maps a base-model reference into the snapshot directory
// produced by the external download mechanism:
// <cacheRoot>/models--<org>--<name>/snapshots/<subdir>.
// The mechanism is expected to leave exactly one snapshot subdirectory;
// zero or more than one means the snapshot is treated as absent.
func BaseSnapshotDir(cacheRoot, baseModelRef string) (string, bool) {
	snapshots := filepath.Join(cacheRoot, "models--"+strings.ReplaceAll(baseModelRef, "/", "--"), "snapshots")
	entries, err := os.ReadDir(snapshots)
	if err != nil {
		return "", false
	}
	var sub string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if sub != "" {
			// ambiguous: multiple revisions materialized
			return "", false
		}
		sub = e.Name()
	}
	if sub == "" {
		return "", false
	}
	return filepath.Join(snapshots, sub), true
}

// AdapterID derives the stable positive 31-bit identifier for a reference.
// FNV-1a keeps it deterministic across process restarts.
func AdapterID(adapterRef string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(adapterRef))
	id := int64(h.Sum32() & 0x7fffffff)
	if id == 0 {
		id = 1
	}
	return id
}

package resolver

import "path/filepath"

// copyChatTemplateIfNeeded copies the base model's chat template into the
// adapter's tokenizer config when the adapter does not define one. Every
// failure here is non-fatal: resolution proceeds without a template.
func (r *Resolver) copyChatTemplateIfNeeded(baseModelRef, adapterRef string) {
	if !r.copyChatTemplate {
		return
	}

	adapterDir := AdapterDir(r.cacheRoot, adapterRef)
	adapterConfigPath := filepath.Join(adapterDir, tokenizerConfigFile)

	adapterConfig := r.readTokenizerConfig(adapterConfigPath)
	if tpl, ok := adapterConfig[chatTemplateKey].(string); ok && tpl != "" {
		r.log.Debug().Str("adapter", adapterRef).Msg("adapter already has a chat template, skipping copy")
		return
	}
	if _, ok := r.readTemplateFile(filepath.Join(adapterDir, chatTemplateFile)); ok {
		r.log.Debug().Str("adapter", adapterRef).Msg("adapter ships a standalone chat template, skipping copy")
		return
	}

	snapshotDir, ok := BaseSnapshotDir(r.cacheRoot, baseModelRef)
	if !ok {
		r.log.Debug().Str("base_model", baseModelRef).Msg("no base model snapshot, skipping template copy")
		return
	}

	baseConfig := r.readTokenizerConfig(filepath.Join(snapshotDir, tokenizerConfigFile))
	template, _ := baseConfig[chatTemplateKey].(string)
	if template == "" {
		// fall back to the base model's standalone template file
		template, _ = r.readTemplateFile(filepath.Join(snapshotDir, chatTemplateFile))
	}
	if template == "" {
		r.log.Debug().Str("base_model", baseModelRef).Msg("base model has no chat template, skipping copy")
		return
	}

	adapterConfig[chatTemplateKey] = template
	if r.writeTokenizerConfig(adapterConfigPath, adapterConfig) {
		r.publisher.Publish(Event{Name: "template_copied", Adapter: adapterRef})
		r.log.Info().Str("base_model", baseModelRef).Str("adapter", adapterRef).Msg("copied chat template from base model")
	} else {
		r.log.Warn().Str("adapter", adapterRef).Msg("failed to copy chat template, continuing without one")
	}
}

package cmd

import (
	"github.com/sanix-darker/revfix/internal/config"
	"github.com/sanix-darker/revfix/internal/provider"

	_ "github.com/sanix-darker/revfix/internal/provider/init"
)

// resolveProvider creates an AIProvider from the current config.
func resolveProvider(conf config.Config) (provider.AIProvider, error) {
	// Override provider name from CLI
	if conf.Provider != "" {
		conf.Store.Set(provider.ConfigKeyProvider, conf.Provider)
	}

	pcfg := provider.ResolveProvider(conf.Store)

	// Override model from CLI
	if conf.Model != "" {
		pcfg.Store.Set("model", conf.Model)
	}

	return provider.Get(pcfg.Name, pcfg.Store)
}

// Package init exists solely to trigger provider registration via import
// side-effects. Import this package once in your main or cmd layer:
//
//	import _ "github.com/sanix-darker/revfix/internal/provider/init"
//
// This registers all built-in providers (openai and anthropic) with the
// global provider.Registry.
package init

import (
	_ "github.com/sanix-darker/revfix/internal/provider/anthropic"
	_ "github.com/sanix-darker/revfix/internal/provider/openai"
)

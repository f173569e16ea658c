// Package assets embeds the default configuration files written on first run.
package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultPolicyYAML contains the embedded default safety policy rules.
//
//go:embed defaults/policy.yaml
var DefaultPolicyYAML []byte

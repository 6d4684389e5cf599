package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/ludo-technologies/jscan/internal/constants"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template
type DefaultConfigValues struct {
	SimilarityThreshold float64
	Workers             int
	P                   int
	Q                   int
	MaxDepth            int
	Format              string
}

func newDefaultConfigValues() DefaultConfigValues {
	return DefaultConfigValues{
		SimilarityThreshold: constants.DefaultSimilarityThreshold,
		Workers:             constants.DefaultMatrixWorkers,
		P:                   constants.DefaultPQGramP,
		Q:                   constants.DefaultPQGramQ,
		MaxDepth:            constants.DefaultPQGramDepth,
		Format:              "text",
	}
}

// GenerateDefaultConfigTOML renders the default .jscan.toml
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vocabulary overrides the word lists used by matching and direction
// classification. Empty lists leave the existing value untouched.
type Vocabulary struct {
	CaseLabels      []string `yaml:"case_labels"`
	ContextKeywords []string `yaml:"context_keywords"`
	NameSuffixes    []string `yaml:"name_suffixes"`
	SentIndicators  []string `yaml:"sent_indicators"`
}

// LoadVocabulary reads a YAML vocabulary file, expanding ${VAR} references.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file %s: %w", path, err)
	}

	var v Vocabulary
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary YAML: %w", err)
	}
	return &v, nil
}

func (v *Vocabulary) apply(cfg *Config) {
	if len(v.CaseLabels) > 0 {
		cfg.CaseLabels = v.CaseLabels
	}
	if len(v.ContextKeywords) > 0 {
		cfg.ContextKeywords = v.ContextKeywords
	}
	if len(v.NameSuffixes) > 0 {
		cfg.NameSuffixes = v.NameSuffixes
	}
	if len(v.SentIndicators) > 0 {
		cfg.SentIndicators = v.SentIndicators
	}
}

package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"votebench/internal/harness"
)

// Plan is a yaml-declared experiment list:
//
//	profile: quick
//	experiments:
//	  - concurrent_queries: 5
//	    votes_per_minute: 50
//	    duration_minutes: 1
type Plan struct {
	Profile     string                     `yaml:"profile"`
	Experiments []harness.ExperimentConfig `yaml:"experiments"`
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if len(plan.Experiments) == 0 {
		return nil, fmt.Errorf("plan %s declares no experiments", path)
	}
	for i, cfg := range plan.Experiments {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("plan %s, experiment %d: %w", path, i+1, err)
		}
	}
	return &plan, nil
}

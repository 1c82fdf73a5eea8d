package config

import (
	"errors"
	"fmt"
	"runtime"

	faeerrors "github.com/standardbeagle/fae/internal/errors"
)

// Validator validates configuration and fills in smart defaults for
// fields the caller left at their zero value.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProject(&cfg.Project); err != nil {
		return faeerrors.NewConfigError("project", "", err)
	}
	if err := v.validateIndex(&cfg.Index); err != nil {
		return faeerrors.NewConfigError("index", "", err)
	}
	if err := v.validateSearch(&cfg.Search); err != nil {
		return faeerrors.NewConfigError("search", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProject(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndex(index *Index) error {
	if index.MaxFileBytes <= 0 {
		return fmt.Errorf("MaxFileBytes must be positive, got %d", index.MaxFileBytes)
	}
	if index.ParallelWorkers < 0 {
		return fmt.Errorf("ParallelWorkers cannot be negative, got %d", index.ParallelWorkers)
	}
	return nil
}

func (v *Validator) validateSearch(search *Search) error {
	if search.DebounceMs < 0 {
		return fmt.Errorf("DebounceMs cannot be negative, got %d", search.DebounceMs)
	}
	if search.FuzzyThreshold < 0 || search.FuzzyThreshold > 1 {
		return fmt.Errorf("FuzzyThreshold must be within [0,1], got %v", search.FuzzyThreshold)
	}
	if search.ResultsMax < 0 {
		return fmt.Errorf("ResultsMax cannot be negative, got %d", search.ResultsMax)
	}
	return nil
}

func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Index.ParallelWorkers == 0 {
		cfg.Index.ParallelWorkers = max(1, runtime.NumCPU()-1)
	}
	if cfg.Search.ResultsMax == 0 {
		cfg.Search.ResultsMax = DefaultResultsMax
	}
	if len(cfg.Backend.Preference) == 0 {
		cfg.Backend.Preference = []string{"ripgrep", "ag", "builtin"}
	}
}

// ValidateConfig is a convenience function for one-shot validation.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}

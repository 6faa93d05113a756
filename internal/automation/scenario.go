package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/metrics"
	"github.com/san-kum/orbsim/internal/sim"
	"github.com/san-kum/orbsim/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step runs one preset, optionally overridden with any config keys.
type Step struct {
	Name      string    `yaml:"name"`
	Preset    string    `yaml:"preset"`
	Frames    int       `yaml:"frames"`
	Stride    int       `yaml:"stride"`
	Seed      int64     `yaml:"seed"`
	Overrides yaml.Node `yaml:"overrides"`
}

type StepResult struct {
	Name   string
	RunID  string
	Seed   int64
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Config resolves the step's preset and overrides.
func (s *Step) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "classic"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if !s.Overrides.IsZero() {
		if err := s.Overrides.Decode(cfg); err != nil {
			return nil, fmt.Errorf("overrides: %w", err)
		}
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order. Results are saved to store when
// it is non-nil. Progress lines go to log.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, log io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		fmt.Fprintf(log, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		s, seed, err := sim.FromConfig(cfg, time.Now())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		for _, m := range metrics.Default(cfg.Bounds()) {
			s.AddMetric(m)
		}

		run := sim.Config{Frames: step.Frames, Stride: step.Stride}
		if run.Frames == 0 {
			run.Frames = cfg.Threshold() + 2
		}

		result, err := s.Run(ctx, run)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Seed: seed, Result: result}
		if store != nil {
			meta := storage.MetadataFor(cfg, seed, run)
			if sr.RunID, err = store.Save(meta, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

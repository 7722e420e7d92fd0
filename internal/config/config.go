package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/melih/shipyard/internal/core/domain"
)

// DefaultFile is the plan filename looked up when none is given.
const DefaultFile = "shipyard.yaml"

type file struct {
	BaseImage  string            `yaml:"baseImage"`
	Env        map[string]string `yaml:"env"`
	Workdir    string            `yaml:"workdir"`
	Manifest   string            `yaml:"manifest"`
	Context    string            `yaml:"context"`
	Repo       string            `yaml:"repo"`
	Exclude    []string          `yaml:"exclude"`
	Port       int               `yaml:"port"`
	Entrypoint []string          `yaml:"entrypoint"`
	Tag        string            `yaml:"tag"`
}

// Load reads a plan file and merges it over the defaults. Env entries merge
// key by key, so a file that sets its own variables keeps PYTHONUNBUFFERED
// unless it overrides it. Unknown keys are rejected.
func Load(path string) (domain.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("reading plan file: %w", err)
	}

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return domain.Plan{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	plan := domain.DefaultPlan()
	if f.BaseImage != "" {
		plan.BaseImage = f.BaseImage
	}
	for k, v := range f.Env {
		plan.Env[k] = v
	}
	if f.Workdir != "" {
		plan.Workdir = f.Workdir
	}
	if f.Manifest != "" {
		plan.Manifest = f.Manifest
	}
	if f.Context != "" {
		plan.Context = f.Context
	}
	if f.Repo != "" {
		plan.RepoURL = f.Repo
	}
	if len(f.Exclude) > 0 {
		plan.Exclude = append([]string(nil), f.Exclude...)
	}
	if f.Port != 0 {
		plan.Port = f.Port
	}
	if len(f.Entrypoint) > 0 {
		plan.Entrypoint = append([]string(nil), f.Entrypoint...)
	}
	if f.Tag != "" {
		plan.Tag = f.Tag
	}

	if err := plan.Validate(); err != nil {
		return domain.Plan{}, fmt.Errorf("invalid plan in %s: %w", path, err)
	}
	return plan, nil
}

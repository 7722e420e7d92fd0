package domain

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Plan describes everything a single image build consumes: the pinned base
// runtime, the environment applied to every later step and to the running
// process, the working directory, the dependency manifest, the build context,
// the advisory port and the startup command. A Plan is assembled once and
// never mutated during a build; changing the base image is a new build.
type Plan struct {
	// BaseImage is the pinned runtime reference (interpreter + OS layer).
	BaseImage string `yaml:"baseImage" json:"base_image"`

	// Env is applied process-wide to every build step after it is set and
	// to the final running process. Keys are unique.
	Env map[string]string `yaml:"env" json:"env"`

	// Workdir is the absolute path all relative file operations and the
	// entrypoint resolve against. Created inside the image if absent.
	Workdir string `yaml:"workdir" json:"workdir"`

	// Manifest is the dependency manifest filename, relative to the
	// build context root. Consumed as an opaque input file.
	Manifest string `yaml:"manifest" json:"manifest"`

	// Context is the local source tree handed to the build. Ignored when
	// RepoURL is set.
	Context string `yaml:"context" json:"context"`

	// RepoURL, when set, is a git repository cloned as the build context.
	RepoURL string `yaml:"repo" json:"repo_url"`

	// Exclude lists patterns left out of the staged build context.
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Port is the declared listening port. Advisory metadata only, never
	// enforced by the build.
	Port int `yaml:"port" json:"port"`

	// Entrypoint is the fixed argv executed when the artifact is
	// instantiated. Not validated at build time.
	Entrypoint []string `yaml:"entrypoint" json:"entrypoint"`

	// Tag names the produced image.
	Tag string `yaml:"tag" json:"tag"`
}

// DefaultPlan returns the canonical plan for a small Python service:
// slim Python base, unbuffered stdio, /app workdir, pip requirements file,
// port 5000 and "python app.py" as the startup command.
func DefaultPlan() Plan {
	return Plan{
		BaseImage:  "python:3.11-slim",
		Env:        map[string]string{"PYTHONUNBUFFERED": "1"},
		Workdir:    "/app",
		Manifest:   "requirements.txt",
		Context:    ".",
		Port:       5000,
		Entrypoint: []string{"python", "app.py"},
		Tag:        "shipyard-app:latest",
	}
}

// Validate checks the structural invariants of a plan before any build step
// runs. Reference resolvability is checked by the builder itself.
func (p Plan) Validate() error {
	if strings.TrimSpace(p.BaseImage) == "" {
		return fmt.Errorf("base image reference is required")
	}
	if !path.IsAbs(p.Workdir) {
		return fmt.Errorf("workdir %q must be an absolute path", p.Workdir)
	}
	if strings.TrimSpace(p.Manifest) == "" {
		return fmt.Errorf("dependency manifest filename is required")
	}
	if p.Context == "" && p.RepoURL == "" {
		return fmt.Errorf("either a build context directory or a repo URL is required")
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("port %d is outside 1..65535", p.Port)
	}
	if len(p.Entrypoint) == 0 {
		return fmt.Errorf("entrypoint command is required")
	}
	for k := range p.Env {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("environment variable with empty name")
		}
		if strings.ContainsAny(k, "= ") {
			return fmt.Errorf("invalid environment variable name %q", k)
		}
	}
	return nil
}

// EnvKeys returns the environment variable names in a stable order, so that
// two builds of the same plan render the same sequence.
func (p Plan) EnvKeys() []string {
	keys := make([]string, 0, len(p.Env))
	for k := range p.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-containerregistry/pkg/v1/tarball"
)

// Descriptor summarizes the runtime-facing configuration recorded on an
// exported image archive: the same surface verify() checks against a live
// daemon, readable without one.
type Descriptor struct {
	Env        map[string]string `json:"env"`
	Workdir    string            `json:"workdir"`
	Ports      []string          `json:"ports"`
	Entrypoint []string          `json:"entrypoint"`
}

// InspectArchive reads the image config out of a docker-save style tar.
func InspectArchive(path string) (Descriptor, error) {
	img, err := tarball.ImageFromPath(path, nil)
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading image archive %s: %w", path, err)
	}
	cf, err := img.ConfigFile()
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading image config: %w", err)
	}

	cfg := cf.Config
	env := make(map[string]string, len(cfg.Env))
	for _, kv := range cfg.Env {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}

	ports := make([]string, 0, len(cfg.ExposedPorts))
	for p := range cfg.ExposedPorts {
		ports = append(ports, p)
	}
	sort.Strings(ports)

	entrypoint := append([]string(nil), cfg.Entrypoint...)
	entrypoint = append(entrypoint, cfg.Cmd...)

	return Descriptor{
		Env:        env,
		Workdir:    cfg.WorkingDir,
		Ports:      ports,
		Entrypoint: entrypoint,
	}, nil
}

package domain

import "time"

// Artifact is the immutable descriptor of a produced image. The environment
// set lives here, attached to the descriptor and applied at process launch,
// rather than as ambient global state.
type Artifact struct {
	ID         string            `json:"id"`
	ImageID    string            `json:"image_id"`
	Tag        string            `json:"tag"`
	BaseImage  string            `json:"base_image"`
	Env        map[string]string `json:"env"`
	Workdir    string            `json:"workdir"`
	Port       int               `json:"port"`
	Entrypoint []string          `json:"entrypoint"`
	CreatedAt  time.Time         `json:"created_at"`
}

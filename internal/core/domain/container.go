package domain

// Container represents a running instance of an artifact (Docker, K8s, etc.)
type Container struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Status    string `json:"status"`
	State     string `json:"state"` // running, exited, etc.
	IPAddress string `json:"ip_address"`
	Port      int    `json:"port"` // the container's declared listening port
}

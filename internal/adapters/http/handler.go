package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/melih/shipyard/internal/core/domain"
	"github.com/melih/shipyard/internal/core/ports"
	"github.com/melih/shipyard/internal/core/registry"
)

type ContainerHandler struct {
	service   ports.ContainerService
	builder   ports.BuilderService
	artifacts *registry.Registry
}

func NewContainerHandler(service ports.ContainerService, builder ports.BuilderService, artifacts *registry.Registry) *ContainerHandler {
	return &ContainerHandler{service: service, builder: builder, artifacts: artifacts}
}

func (h *ContainerHandler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.service.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

type BuildRequest struct {
	RepoURL   string `json:"repo_url"`
	Context   string `json:"context"`
	Tag       string `json:"tag"`
	BaseImage string `json:"base_image"`
	Port      int    `json:"port"`
}

func (r BuildRequest) plan() domain.Plan {
	plan := domain.DefaultPlan()
	if r.RepoURL != "" {
		plan.RepoURL = r.RepoURL
	}
	if r.Context != "" {
		plan.Context = r.Context
	}
	if r.Tag != "" {
		plan.Tag = r.Tag
	}
	if r.BaseImage != "" {
		plan.BaseImage = r.BaseImage
	}
	if r.Port != 0 {
		plan.Port = r.Port
	}
	return plan
}

// TriggerBuild runs the full provisioning sequence for the requested plan.
// This is a blocking operation and might take time; a background job queue
// would be the next step for a multi-tenant setup.
func (h *ContainerHandler) TriggerBuild(c *fiber.Ctx) error {
	var req BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.RepoURL == "" && req.Context == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Repo URL or context directory is required",
		})
	}

	art, err := h.builder.BuildImage(c.Context(), req.plan())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Build failed: " + err.Error(),
		})
	}
	h.artifacts.Add(art)

	return c.Status(fiber.StatusCreated).JSON(art)
}

func (h *ContainerHandler) ListArtifacts(c *fiber.Ctx) error {
	return c.JSON(h.artifacts.List())
}

func (h *ContainerHandler) GetArtifact(c *fiber.Ctx) error {
	art, ok := h.artifacts.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Artifact not found",
		})
	}
	return c.JSON(art)
}

type StartContainerRequest struct {
	ArtifactID string `json:"artifact_id"`
	RepoURL    string `json:"repo_url"`
	Name       string `json:"name"`
}

func (h *ContainerHandler) StartContainer(c *fiber.Ctx) error {
	var req StartContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var art domain.Artifact

	switch {
	case req.RepoURL != "":
		// Build from source, then launch the produced artifact.
		built, err := h.builder.BuildImage(c.Context(), BuildRequest{RepoURL: req.RepoURL}.plan())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Build failed: " + err.Error(),
			})
		}
		h.artifacts.Add(built)
		art = built
	case req.ArtifactID != "":
		found, ok := h.artifacts.Get(req.ArtifactID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Artifact not found",
			})
		}
		art = found
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Artifact ID or Repo URL is required",
		})
	}

	containerID, err := h.service.StartContainer(c.Context(), art, req.Name)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       containerID,
		"artifact": art.ID,
		"image":    art.Tag,
	})
}

func (h *ContainerHandler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	if err := h.service.StopContainer(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ContainerHandler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	logs, err := h.service.GetContainerLogs(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}

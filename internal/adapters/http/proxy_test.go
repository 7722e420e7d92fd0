package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/shipyard/internal/core/domain"
)

func TestProxyUnknownAppReturnsNotFound(t *testing.T) {
	rt := &fakeRuntime{}
	app := fiber.New()
	app.Use(NewProxyHandler(rt).ProxyRequest)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("api") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "ghost.localhost"

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProxySkipsNonRunningContainers(t *testing.T) {
	rt := &fakeRuntime{containers: []domain.Container{
		{Name: "myapp", State: "exited", IPAddress: "172.17.0.2", Port: 5000},
	}}
	app := fiber.New()
	app.Use(NewProxyHandler(rt).ProxyRequest)

	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "myapp.localhost"

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProxyPassesThroughBareHost(t *testing.T) {
	app := fiber.New()
	app.Use(NewProxyHandler(&fakeRuntime{}).ProxyRequest)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("api") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "localhost"

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

package server

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateServer(t *testing.T) {
	app := CreateServer(&Config{AppName: "test", Timeout: 1, ReadBufferSize: 4096, BodyLimit: 1024, IsProduction: true})

	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/panic", func(c *fiber.Ctx) error { panic("oops") })

	res, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get(fiber.HeaderXRequestID))

	cases := map[string]struct {
		status  int
		message string
	}{
		"/teapot": {fiber.StatusTeapot, "short and stout"},
		"/boom":   {fiber.StatusInternalServerError, "boom"},
	}
	for path, want := range cases {
		res, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want.status, res.StatusCode)

		body := map[string]string{}
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equal(t, want.message, body["error"])
	}

	res, err = app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
}

package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	privPem := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubPem := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub})

	return string(EncodeBase64(pubPem)), string(EncodeBase64(privPem))
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/", Protected(JwtMiddlewareConfig{ReadFrom: "header", Subject: "dispatch", Scopes: []string{"wallet"}}), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user").(string))
	})
	return app
}

func TestProtected(t *testing.T) {
	pub, priv := newKeyPair(t)
	InitSharedConstants(ParsePublicKey(pub))
	t.Cleanup(func() { InitSharedConstants(nil) })

	privateKey := ParsePrivateKey(priv)
	token := func(subject, scope string) string {
		tok, err := CreateJwt(JwtConfig{User: "7", ExpireIn: time.Minute, Scope: scope, Subject: subject, PrivateKey: privateKey})
		require.NoError(t, err)
		return tok
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"malformed", "Bearer nope", fiber.StatusUnauthorized},
		{"wrong subject", "Bearer " + token("access", "wallet"), fiber.StatusUnauthorized},
		{"wrong scope", "Bearer " + token("dispatch", "basic"), fiber.StatusForbidden},
		{"valid", "Bearer " + token("dispatch", "basic wallet"), fiber.StatusOK},
	}

	app := protectedApp()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}

			res, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, c.status, res.StatusCode)

			if c.status == fiber.StatusOK {
				body, _ := io.ReadAll(res.Body)
				assert.Equal(t, "7", string(body))
			}
		})
	}
}

func TestProtectedWithoutKey(t *testing.T) {
	InitSharedConstants(nil)
	app := fiber.New()
	app.Get("/", Protected(JwtMiddlewareConfig{Subject: "dispatch"}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	res, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
}

type sample struct {
	Id   int64  `json:"id" validate:"required,gt=0"`
	Name string `json:"name"`
}

func TestStandardBodyParse(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		body := new(sample)
		if err := StandardBodyParse(c, body); err != nil {
			return err
		}
		return c.SendString(body.Name)
	})

	send := func(payload string) (int, string) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(res.Body)
		return res.StatusCode, string(body)
	}

	status, body := send(`{"id": 1, "name": "ok"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, _ = send(`{"id": 0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = send(`{`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestConvertConfig(t *testing.T) {
	type source struct {
		Driver string
		Dsn    string
		Extra  int
	}

	out, err := ConvertConfig[source, DatabaseConfig](source{Driver: "sqlite", Dsn: "file.db", Extra: 3})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", out.Driver)
	assert.Equal(t, "file.db", out.Dsn)
}

func TestProvideDatabaseSqlite(t *testing.T) {
	db, err := ProvideDatabase(&DatabaseConfig{Driver: DriverSqlite, IsProduction: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var one int
	require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)

	_, err = ProvideDatabase(&DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestProvideRedisDisabled(t *testing.T) {
	client, err := ProvideRedis(&RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

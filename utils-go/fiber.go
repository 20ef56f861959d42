package utils

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/rs/zerolog/log"
)

const authScheme = "Bearer"

var (
	publicKey *rsa.PublicKey
)

type Router struct {
	fiber.Router
}

type JwtMiddlewareConfig struct {
	ReadFrom string
	Subject  string
	Scopes   []string
}

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

func GetDefaultRouter(app *fiber.App) *Router {
	temp := app.Group("")
	return &Router{Router: temp}
}

// InitSharedConstants sets the key Protected verifies tokens with. A nil key leaves the
// routes open.
func InitSharedConstants(pubKey *rsa.PublicKey) {
	publicKey = pubKey
}

func accessDenied(c *fiber.Ctx, status int, description string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":             "access_denied",
		"error_description": description,
	})
}

// Protected checks the bearer token against the shared public key, its subject and
// scopes. The "user" claim ends up in the "user" local.
func Protected(config JwtMiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if publicKey == nil {
			return c.Next()
		}

		rawToken, err := func() (string, error) {
			if config.ReadFrom == "header" || config.ReadFrom == "" {
				auth := c.Get(fiber.HeaderAuthorization)
				l := len(authScheme)
				if len(auth) > l+1 && strings.EqualFold(auth[:l], authScheme) {
					return auth[l+1:], nil
				}

				return "", errors.New("Missing or malformed JWT")
			} else if config.ReadFrom == "cookie" {
				token := c.Cookies("accessToken")
				if token == "" {
					return "", errors.New("Missing or malformed JWT")
				}

				return token, nil
			}
			return "", errors.New("Invalid token read location")
		}()
		if err != nil {
			return accessDenied(c, fiber.StatusUnauthorized, "Missing or malformed JWT")
		}

		tok, err := jwt.Parse(rawToken, func(jwtToken *jwt.Token) (interface{}, error) {
			if _, ok := jwtToken.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected method: %s", jwtToken.Header["alg"])
			}
			return publicKey, nil
		})
		if err != nil {
			return accessDenied(c, fiber.StatusUnauthorized, err.Error())
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok || !tok.Valid {
			return accessDenied(c, fiber.StatusUnauthorized, "Invalid JWT")
		}

		if sub, _ := claims["sub"].(string); sub != config.Subject {
			return accessDenied(c, fiber.StatusUnauthorized, "Invalid JWT")
		}

		scope, _ := claims["scope"].(string)
		scopeArray := strings.Split(scope, " ")
		for _, scope := range config.Scopes {
			if IsInList(scope, &scopeArray) == -1 {
				return accessDenied(c, fiber.StatusForbidden, "Invalid scope")
			}
		}

		user, _ := claims["user"].(string)
		c.Locals("user", user)

		return c.Next()
	}
}

func ParsePublicKey(key string) *rsa.PublicKey {
	tempJwtPublicKey, err := DecodeBase64([]byte(key))
	if err != nil {
		log.Panic().Err(err).Msg("Failed to decode jwt public key")
	}
	jwtPublicKey, err := jwt.ParseRSAPublicKeyFromPEM(tempJwtPublicKey)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to parse jwt public key")
	}
	return jwtPublicKey
}

func ParsePrivateKey(key string) *rsa.PrivateKey {
	tempJwtPrivateKey, err := DecodeBase64([]byte(key))
	if err != nil {
		log.Panic().Err(err).Msg("Failed to decode jwt private key")
	}
	jwtPrivateKey, err := jwt.ParseRSAPrivateKeyFromPEM(tempJwtPrivateKey)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to parse jwt private key")
	}
	return jwtPrivateKey
}

func StandardInternalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func StandardCouldNotParse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Could not parse request",
	})
}

// StandardBodyParse decodes and validates the request body into out. Failures come back
// as a 400 *fiber.Error naming the first offending field.
func StandardBodyParse(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not parse request")
	}

	if failures := Validate(out); len(failures) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid field %s: %s", failures[0].FailedField, failures[0].Tag))
	}

	return nil
}

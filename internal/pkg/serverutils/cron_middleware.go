package serverutils

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// CronSecretMiddleware guards internal trigger endpoints called by the external scheduler.
// It accepts either "X-Cron-Secret: <secret>" or "Authorization: Bearer <secret>".
// The configured secret may be stored as a bcrypt hash (see HashCronSecret).
func CronSecretMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(503, "Cron secret not configured"))
		}

		provided := ctx.Get("X-Cron-Secret")
		if provided == "" {
			auth := ctx.Get("Authorization")
			if len(auth) > 7 && auth[:7] == "Bearer " {
				provided = auth[7:]
			}
		}

		if provided == "" || !cronSecretMatches(secret, provided) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid cron secret"))
		}
		return ctx.Next()
	}
}

// HashCronSecret returns the bcrypt form of a cron secret for CRON_SECRET.
func HashCronSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func cronSecretMatches(configured, provided string) bool {
	if isBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

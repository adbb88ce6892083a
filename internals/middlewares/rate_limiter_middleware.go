package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func tooMany(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}

// GlobalRateLimiter per IP. storage nil = memory lokal (single instance).
func GlobalRateLimiter(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "rl:global:" + c.IP()
		},
		LimitReached: tooMany("❌ Terlalu banyak permintaan. Silakan coba lagi nanti."),
	})
}

// InviteRateLimiter lebih ketat: tiap request invite bisa membuat sesi pembayaran.
func InviteRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "rl:invite:" + c.IP()
		},
		LimitReached: tooMany("❌ Terlalu banyak permintaan undangan. Coba beberapa saat lagi."),
	})
}

// JoinRateLimiter batasi tebakan kode undangan.
func JoinRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 5 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "rl:join:" + c.IP()
		},
		LimitReached: tooMany("❌ Terlalu banyak percobaan kode. Tunggu beberapa menit ya."),
	})
}

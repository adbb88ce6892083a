package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	helper "letme_backend/internals/helpers"
)

const blacklistPrefix = "auth:revoked:"

// RedisBlacklist simpan token yang di-logout sampai exp-nya lewat.
type RedisBlacklist struct {
	rdb *redis.Client
}

func NewRedisBlacklist(rdb *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{rdb: rdb}
}

func tokenKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return blacklistPrefix + hex.EncodeToString(sum[:])
}

func (b *RedisBlacklist) IsBlacklisted(ctx context.Context, raw string) (bool, error) {
	err := b.rdb.Get(ctx, tokenKey(raw)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *RedisBlacklist) Revoke(ctx context.Context, raw string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, tokenKey(raw), 1, ttl).Err()
}

// LogoutHandler POST /api/u/logout: cabut token aktif.
func (b *RedisBlacklist) LogoutHandler(allowCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		exp, _ := c.Locals(LocTokenExp).(int64)
		if err := b.Revoke(c.UserContext(), RawToken(c, allowCookie), time.Unix(exp, 0)); err != nil {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "Gagal logout")
		}
		c.ClearCookie("access_token")
		return helper.JsonOK(c, "Logout berhasil", nil)
	}
}

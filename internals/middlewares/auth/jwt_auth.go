// Package auth memverifikasi JWT dan mengisi locals user/role/company/staff.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "letme_backend/internals/helpers"
)

// LocTokenExp unix exp token aktif (dipakai logout).
const LocTokenExp = "token_exp"

// ProfileResolver cari profil company/staff dari user id kalau klaim tidak membawanya.
type ProfileResolver interface {
	CompanyID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	StaffID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(ctx context.Context, rawToken string) (bool, error) // true = revoked
	AllowCookieFallback bool                                                     // cookie access_token jika tidak ada Bearer
	Profiles            ProfileResolver
	Leeway              time.Duration
	// ProfileOptional: profil belum ada tidak ditolak, local id cukup dikosongkan
	ProfileOptional bool
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}
	parser := jwt.Parser{SkipClaimsValidation: true}

	return func(c *fiber.Ctx) error {
		raw := RawToken(c, o.AllowCookieFallback)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		if o.BlacklistChecker != nil {
			if black, err := o.BlacklistChecker(c.UserContext(), raw); err == nil && black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		claims := jwt.MapClaims{}
		tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		exp, ok := numClaim(claims, "exp")
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token has no exp")
		}
		if time.Now().After(time.Unix(exp, 0).Add(o.Leeway)) {
			return fiber.NewError(fiber.StatusUnauthorized, "Token expired")
		}
		c.Locals(LocTokenExp, exp)

		// user_id: id / sub / user_id
		var userRaw string
		for _, k := range []string{"id", "sub", "user_id"} {
			if userRaw = strClaim(claims, k); userRaw != "" {
				break
			}
		}
		userID, err := uuid.Parse(userRaw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or missing user ID")
		}
		role := strings.ToLower(strClaim(claims, "role"))
		c.Locals(helper.LocUserID, userID.String())
		c.Locals(helper.LocRole, role)

		switch role {
		case helper.RoleCompany:
			id, err := profileID(c, claims, "company_id", userID, o.Profiles, ProfileResolver.CompanyID)
			if err != nil && !(o.ProfileOptional && isMissingProfile(err)) {
				return err
			}
			if id != "" {
				c.Locals(helper.LocCompanyID, id)
			}
		case helper.RoleStaff:
			id, err := profileID(c, claims, "staff_id", userID, o.Profiles, ProfileResolver.StaffID)
			if err != nil && !(o.ProfileOptional && isMissingProfile(err)) {
				return err
			}
			if id != "" {
				c.Locals(helper.LocStaffID, id)
			}
		}
		return c.Next()
	}
}

func profileID(
	c *fiber.Ctx,
	claims jwt.MapClaims,
	key string,
	userID uuid.UUID,
	profiles ProfileResolver,
	lookup func(ProfileResolver, context.Context, uuid.UUID) (uuid.UUID, error),
) (string, error) {
	if s := strClaim(claims, key); s != "" {
		if _, err := uuid.Parse(s); err != nil {
			return "", fiber.NewError(fiber.StatusUnauthorized, key+" tidak valid")
		}
		return s, nil
	}
	if profiles == nil {
		return "", fiber.NewError(fiber.StatusForbidden, "Profil belum lengkap")
	}
	id, err := lookup(profiles, c.UserContext(), userID)
	if err != nil {
		return "", fiber.NewError(fiber.StatusForbidden, "Profil belum lengkap")
	}
	return id.String(), nil
}

func isMissingProfile(err error) bool {
	var fe *fiber.Error
	return errors.As(err, &fe) && fe.Code == fiber.StatusForbidden
}

// RawToken: Authorization: Bearer xxx, atau cookie access_token kalau diizinkan.
func RawToken(c *fiber.Ctx, allowCookie bool) string {
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	fields := strings.Fields(authz)
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}

func strClaim(m jwt.MapClaims, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func numClaim(m jwt.MapClaims, key string) (int64, bool) {
	switch t := m[key].(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	}
	return 0, false
}

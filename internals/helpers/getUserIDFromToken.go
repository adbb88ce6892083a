package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals yang diisi middleware auth.
const (
	LocUserID    = "user_id"
	LocRole      = "role"
	LocCompanyID = "company_id"
	LocStaffID   = "staff_id"
)

const (
	RoleCompany = "company"
	RoleStaff   = "staff"
)

// GetUserIDFromToken: 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocUserID, "User belum login")
}

// GetCompanyIDFromToken: 403 kalau token bukan milik akun perusahaan.
func GetCompanyIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuidFromLocals(c, LocCompanyID, "")
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Hanya akun perusahaan")
	}
	return id, nil
}

func GetStaffIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuidFromLocals(c, LocStaffID, "")
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Hanya akun staff")
	}
	return id, nil
}

func GetRole(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return ""
}

func uuidFromLocals(c *fiber.Ctx, key, missingMsg string) (uuid.UUID, error) {
	if missingMsg == "" {
		missingMsg = "Unauthorized"
	}
	var s string
	switch t := c.Locals(key).(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
		}
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	case nil:
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID pada token tidak valid")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID pada token tidak valid")
	}
	return id, nil
}

// ParamUUID baca path param sebagai UUID (400 kalau invalid).
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return id, nil
}

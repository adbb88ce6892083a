package controller

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/users/profiles/dto"
	"letme_backend/internals/features/users/profiles/service"
	helper "letme_backend/internals/helpers"
)

type ProfileController struct {
	Svc *service.ProfileService
}

func NewProfileController(svc *service.ProfileService) *ProfileController {
	return &ProfileController{Svc: svc}
}

// GET /api/u/profile
func (ctl *ProfileController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	me, err := ctl.Svc.Me(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", me)
}

// PUT /api/u/profile/company
func (ctl *ProfileController) UpsertCompany(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.UpsertProfileRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.UpsertCompany(c.UserContext(), userID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Profil perusahaan disimpan", m)
}

// PUT /api/u/profile/staff
func (ctl *ProfileController) UpsertStaff(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.UpsertProfileRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	m, err := ctl.Svc.UpsertStaff(c.UserContext(), userID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Profil staff disimpan", m)
}

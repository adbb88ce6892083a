package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"letme_backend/internals/features/jobs/reports/dto"
	"letme_backend/internals/features/jobs/reports/service"
	helper "letme_backend/internals/helpers"
)

type ReportController struct {
	Svc *service.ReportService
}

func NewReportController(svc *service.ReportService) *ReportController {
	return &ReportController{Svc: svc}
}

func actor(c *fiber.Ctx) (companyID, staffID *uuid.UUID) {
	if id, err := helper.GetCompanyIDFromToken(c); err == nil {
		companyID = &id
	}
	if id, err := helper.GetStaffIDFromToken(c); err == nil {
		staffID = &id
	}
	return
}

// GET /api/u/reports
func (ctl *ReportController) List(c *fiber.Ctx) error {
	companyID, staffID := actor(c)
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.List(c.UserContext(), service.ListFilter{
		CompanyID: companyID,
		StaffID:   staffID,
		Offset:    p.Offset,
		Limit:     p.Limit,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows)))
}

// GET /api/u/reports/:id
func (ctl *ReportController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	companyID, staffID := actor(c)
	r, err := ctl.Svc.GetForActor(c.UserContext(), id, companyID, staffID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", r)
}

// GET /api/u/applications/:id/report
func (ctl *ReportController) GetByApplication(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	companyID, staffID := actor(c)
	r, err := ctl.Svc.GetByApplication(c.UserContext(), id, companyID, staffID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", r)
}

// POST /api/c/reports/:id/tips
func (ctl *ReportController) AddTips(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AddTipsRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	r, err := ctl.Svc.AddTips(c.UserContext(), companyID, id, req.Amount)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Tips ditambahkan", r)
}

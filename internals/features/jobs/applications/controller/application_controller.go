package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"letme_backend/internals/features/jobs/applications/dto"
	"letme_backend/internals/features/jobs/applications/model"
	"letme_backend/internals/features/jobs/applications/service"
	helper "letme_backend/internals/helpers"
)

type ApplicationController struct {
	Svc *service.ApplicationService
}

func NewApplicationController(svc *service.ApplicationService) *ApplicationController {
	return &ApplicationController{Svc: svc}
}

/* ===================== Staff ===================== */

// POST /api/s/applications
func (ctl *ApplicationController) Apply(c *fiber.Ctx) error {
	staffID, err := helper.GetStaffIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.ApplyRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	app, err := ctl.Svc.Apply(c.UserContext(), staffID, req.VacancyID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Lamaran terkirim", dto.FromModel(app))
}

// GET /api/s/applications?status=
func (ctl *ApplicationController) ListMine(c *fiber.Ctx) error {
	staffID, err := helper.GetStaffIDFromToken(c)
	if err != nil {
		return err
	}
	return ctl.list(c, service.ApplicationFilter{StaffID: &staffID})
}

// GET /api/s/feed
func (ctl *ApplicationController) Feed(c *fiber.Ctx) error {
	staffID, err := helper.GetStaffIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	items, total, err := ctl.Svc.Feed(c.UserContext(), staffID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out := make([]dto.FeedItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewFeedItem(it.Vacancy, it.Application))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(items)))
}

// POST /api/s/applications/:id/checkin
func (ctl *ApplicationController) RequestCheckin(c *fiber.Ctx) error {
	staffID, err := helper.GetStaffIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AttendanceRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	ci, err := ctl.Svc.RequestCheckin(c.UserContext(), staffID, id, req.Location, req.At())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Check-in diajukan", ci)
}

// POST /api/s/applications/:id/checkout
func (ctl *ApplicationController) RequestCheckout(c *fiber.Ctx) error {
	staffID, err := helper.GetStaffIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AttendanceRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	co, err := ctl.Svc.RequestCheckout(c.UserContext(), staffID, id, req.Location, req.At())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Check-out diajukan", co)
}

/* ===================== Shared ===================== */

// GET /api/u/applications/:id
func (ctl *ApplicationController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var companyID, staffID *uuid.UUID
	if cid, err := helper.GetCompanyIDFromToken(c); err == nil {
		companyID = &cid
	}
	if sid, err := helper.GetStaffIDFromToken(c); err == nil {
		staffID = &sid
	}
	app, err := ctl.Svc.GetForActor(c.UserContext(), id, companyID, staffID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(app))
}

/* ===================== Company ===================== */

// GET /api/c/applications?vacancy_id=&status=&stage=
func (ctl *ApplicationController) ListForCompany(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	f := service.ApplicationFilter{CompanyID: &companyID}
	if s := strings.TrimSpace(c.Query("vacancy_id")); s != "" {
		vid, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "vacancy_id tidak valid")
		}
		f.VacancyID = &vid
	}
	switch stage := strings.TrimSpace(c.Query("stage")); stage {
	case service.StageAll, service.StageAwaitingCheckin, service.StageAwaitingCheckout:
		f.Stage = stage
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "stage tidak dikenal")
	}
	return ctl.list(c, f)
}

// GET /api/c/vacancies/:id/applications/summary
func (ctl *ApplicationController) Summary(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	sum, err := ctl.Svc.Summary(c.UserContext(), companyID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}

// POST /api/c/applications/:id/approve
func (ctl *ApplicationController) Approve(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	app, err := ctl.Svc.Approve(c.UserContext(), companyID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Lamaran diterima", dto.FromModel(app))
}

// POST /api/c/applications/:id/reject
func (ctl *ApplicationController) Reject(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	app, err := ctl.Svc.Reject(c.UserContext(), companyID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Lamaran ditolak", dto.FromModel(app))
}

// GET /api/c/checkins/pending
func (ctl *ApplicationController) PendingCheckins(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListPendingCheckins(c.UserContext(), companyID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows)))
}

// GET /api/c/checkouts/pending
func (ctl *ApplicationController) PendingCheckouts(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListPendingCheckouts(c.UserContext(), companyID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows)))
}

// POST /api/c/checkins/:id/review
func (ctl *ApplicationController) ReviewCheckin(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	app, err := ctl.Svc.ApproveCheckin(c.UserContext(), companyID, id, req.At(), *req.Approved)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	msg := "Check-in ditolak"
	if *req.Approved {
		msg = "Check-in disetujui"
	}
	return helper.JsonUpdated(c, msg, dto.FromModel(app))
}

// POST /api/c/checkouts/:id/review
func (ctl *ApplicationController) ReviewCheckout(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	app, report, err := ctl.Svc.ApproveCheckout(c.UserContext(), companyID, id, req.At(), *req.Approved)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !*req.Approved {
		return helper.JsonUpdated(c, "Check-out ditolak", dto.FromModel(app))
	}
	return helper.JsonUpdated(c, "Check-out disetujui", fiber.Map{
		"application": dto.FromModel(app),
		"report":      report,
	})
}

func (ctl *ApplicationController) list(c *fiber.Ctx, f service.ApplicationFilter) error {
	if st := strings.ToLower(strings.TrimSpace(c.Query("status"))); st != "" {
		switch st {
		case model.JobStatusPending, model.JobStatusAccepted, model.JobStatusRejected,
			model.JobStatusExpired, model.JobStatusLate, model.JobStatusCompleted:
			f.Status = st
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "status tidak dikenal")
		}
	}
	p := helper.ResolvePaging(c, 20, 100)
	f.Offset, f.Limit = p.Offset, p.Limit

	rows, total, err := ctl.Svc.List(c.UserContext(), f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows)))
}

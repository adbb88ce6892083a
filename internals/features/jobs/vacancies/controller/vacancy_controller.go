package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"letme_backend/internals/features/jobs/vacancies/dto"
	"letme_backend/internals/features/jobs/vacancies/model"
	"letme_backend/internals/features/jobs/vacancies/service"
	helper "letme_backend/internals/helpers"
)

type VacancyController struct {
	Svc *service.VacancyService
}

func NewVacancyController(svc *service.VacancyService) *VacancyController {
	return &VacancyController{Svc: svc}
}

/* ===================== Jobs ===================== */

// POST /api/c/jobs
func (ctl *VacancyController) CreateJob(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.CreateJobRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	job, err := ctl.Svc.CreateJob(c.UserContext(), companyID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Job berhasil dibuat", job)
}

// GET /api/c/jobs
func (ctl *VacancyController) ListJobs(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	jobs, total, err := ctl.Svc.ListJobs(c.UserContext(), companyID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", jobs, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(jobs)))
}

// GET /api/c/jobs/counts
func (ctl *VacancyController) JobCounts(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	counts, err := ctl.Svc.JobCounts(c.UserContext(), companyID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", counts)
}

// GET /api/public/job-roles
func (ctl *VacancyController) ListJobRoles(c *fiber.Ctx) error {
	roles, err := ctl.Svc.ListJobRoles(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", roles)
}

/* ===================== Vacancies ===================== */

// POST /api/c/vacancies
func (ctl *VacancyController) Create(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.CreateVacancyRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	v, err := ctl.Svc.Create(c.UserContext(), companyID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Vacancy berhasil dibuat", dto.FromModel(v, 0))
}

// PATCH /api/c/vacancies/:id
func (ctl *VacancyController) Update(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateVacancyRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	v, err := ctl.Svc.Update(c.UserContext(), companyID, id, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	_, n, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Vacancy diperbarui", dto.FromModel(v, n))
}

// PATCH /api/c/vacancies/:id/status
func (ctl *VacancyController) UpdateStatus(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateVacancyStatusRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	v, err := ctl.Svc.UpdateStatus(c.UserContext(), companyID, id, req.Status)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Status vacancy diperbarui", dto.FromModel(v, -1))
}

// DELETE /api/c/vacancies/:id
func (ctl *VacancyController) Delete(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), companyID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Vacancy dihapus", fiber.Map{"vacancy_id": id})
}

// GET /api/public/vacancies/:id
func (ctl *VacancyController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	v, n, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(v, n))
}

// GET /api/public/vacancies?status=&job_id=
// Publik hanya melihat vacancy active.
func (ctl *VacancyController) ListPublic(c *fiber.Ctx) error {
	f := service.ListFilter{Status: model.VacancyStatusActive}
	return ctl.list(c, f)
}

// GET /api/c/vacancies?status=&job_id=
func (ctl *VacancyController) ListMine(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	f := service.ListFilter{
		CompanyID: &companyID,
		Status:    strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}
	return ctl.list(c, f)
}

func (ctl *VacancyController) list(c *fiber.Ctx, f service.ListFilter) error {
	if s := strings.TrimSpace(c.Query("job_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "job_id tidak valid")
		}
		f.JobID = &id
	}
	p := helper.ResolvePaging(c, 20, 100)
	f.Offset, f.Limit = p.Offset, p.Limit

	rows, total, err := ctl.Svc.List(c.UserContext(), f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out := make([]dto.VacancyResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], -1))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(out)))
}

package route

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/jobs/vacancies/controller"
	"letme_backend/internals/features/jobs/vacancies/service"
)

// VacancyPublicRoutes: /api/public
func VacancyPublicRoutes(r fiber.Router, svc *service.VacancyService) {
	ctl := controller.NewVacancyController(svc)

	r.Get("/job-roles", ctl.ListJobRoles)
	r.Get("/vacancies", ctl.ListPublic)
	r.Get("/vacancies/:id", ctl.Get)
}

// VacancyCompanyRoutes: /api/c (role company)
func VacancyCompanyRoutes(r fiber.Router, svc *service.VacancyService) {
	ctl := controller.NewVacancyController(svc)

	jobs := r.Group("/jobs")
	jobs.Post("/", ctl.CreateJob)
	jobs.Get("/", ctl.ListJobs)
	jobs.Get("/counts", ctl.JobCounts)

	v := r.Group("/vacancies")
	v.Post("/", ctl.Create)
	v.Get("/", ctl.ListMine)
	v.Patch("/:id", ctl.Update)
	v.Patch("/:id/status", ctl.UpdateStatus)
	v.Delete("/:id", ctl.Delete)
}

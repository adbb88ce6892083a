package route

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/jobs/reports/controller"
	"letme_backend/internals/features/jobs/reports/service"
)

// ReportUserRoutes: /api/u
func ReportUserRoutes(r fiber.Router, svc *service.ReportService) {
	ctl := controller.NewReportController(svc)

	r.Get("/reports", ctl.List)
	r.Get("/reports/:id", ctl.Get)
	r.Get("/applications/:id/report", ctl.GetByApplication)
}

// ReportCompanyRoutes: /api/c
func ReportCompanyRoutes(r fiber.Router, svc *service.ReportService) {
	ctl := controller.NewReportController(svc)
	r.Post("/reports/:id/tips", ctl.AddTips)
}

package route

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/jobs/applications/controller"
	"letme_backend/internals/features/jobs/applications/service"
)

// ApplicationStaffRoutes: /api/s (role staff)
func ApplicationStaffRoutes(r fiber.Router, svc *service.ApplicationService) {
	ctl := controller.NewApplicationController(svc)

	g := r.Group("/applications")
	g.Post("/", ctl.Apply)
	g.Get("/", ctl.ListMine)
	g.Post("/:id/checkin", ctl.RequestCheckin)
	g.Post("/:id/checkout", ctl.RequestCheckout)

	r.Get("/feed", ctl.Feed)
}

// ApplicationUserRoutes: /api/u (company atau staff)
func ApplicationUserRoutes(r fiber.Router, svc *service.ApplicationService) {
	ctl := controller.NewApplicationController(svc)
	r.Get("/applications/:id", ctl.Get)
}

// ApplicationCompanyRoutes: /api/c (role company)
func ApplicationCompanyRoutes(r fiber.Router, svc *service.ApplicationService) {
	ctl := controller.NewApplicationController(svc)

	g := r.Group("/applications")
	g.Get("/", ctl.ListForCompany)
	g.Post("/:id/approve", ctl.Approve)
	g.Post("/:id/reject", ctl.Reject)

	r.Get("/vacancies/:id/applications/summary", ctl.Summary)

	r.Get("/checkins/pending", ctl.PendingCheckins)
	r.Post("/checkins/:id/review", ctl.ReviewCheckin)
	r.Get("/checkouts/pending", ctl.PendingCheckouts)
	r.Post("/checkouts/:id/review", ctl.ReviewCheckout)
}

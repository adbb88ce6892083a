package route

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/payment/subscriptions/controller"
	"letme_backend/internals/features/payment/subscriptions/service"
)

// SubscriptionPublicRoutes: /api/public (webhook tanpa JWT, diverifikasi signature)
func SubscriptionPublicRoutes(r fiber.Router, svc *service.SubscriptionService) {
	ctl := controller.NewSubscriptionController(svc)

	r.Get("/packages", ctl.ListPackages)
	r.Post("/payments/midtrans/webhook", ctl.Webhook)
}

// SubscriptionCompanyRoutes: /api/c
func SubscriptionCompanyRoutes(r fiber.Router, svc *service.SubscriptionService) {
	ctl := controller.NewSubscriptionController(svc)

	r.Get("/subscription", ctl.Current)
	r.Get("/my-staff", ctl.ListMyStaff)

	inv := r.Group("/invites")
	inv.Post("/", ctl.RequestInvite)
	inv.Get("/", ctl.ListInvites)
}

// SubscriptionStaffRoutes: /api/s
func SubscriptionStaffRoutes(r fiber.Router, svc *service.SubscriptionService) {
	ctl := controller.NewSubscriptionController(svc)
	r.Post("/invites/join", ctl.Join)
}

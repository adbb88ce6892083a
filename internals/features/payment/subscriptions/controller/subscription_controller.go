package controller

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/payment/subscriptions/dto"
	"letme_backend/internals/features/payment/subscriptions/service"
	helper "letme_backend/internals/helpers"
)

type SubscriptionController struct {
	Svc *service.SubscriptionService
}

func NewSubscriptionController(svc *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{Svc: svc}
}

// GET /api/public/packages
func (ctl *SubscriptionController) ListPackages(c *fiber.Ctx) error {
	rows, err := ctl.Svc.ListPackages(c.UserContext())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/c/subscription
func (ctl *SubscriptionController) Current(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	cur, err := ctl.Svc.Current(c.UserContext(), companyID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", cur)
}

// POST /api/c/invites
func (ctl *SubscriptionController) RequestInvite(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.RequestInviteRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	res, err := ctl.Svc.RequestInvite(c.UserContext(), companyID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	msg := "Undangan diproses"
	switch res.Outcome {
	case dto.OutcomeCheckout, dto.OutcomeModified:
		if res.PaymentToken != "" {
			msg = "Selesaikan pembayaran untuk mengirim undangan"
		}
	case dto.OutcomeMailQueued:
		msg = "Undangan dikirim"
	}
	return helper.JsonCreated(c, msg, res)
}

// GET /api/c/invites
func (ctl *SubscriptionController) ListInvites(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListInvites(c.UserContext(), companyID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows)))
}

// GET /api/c/my-staff
func (ctl *SubscriptionController) ListMyStaff(c *fiber.Ctx) error {
	companyID, err := helper.GetCompanyIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListMyStaff(c.UserContext(), companyID, p.Offset, p.Limit)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows)))
}

// POST /api/s/invites/join
func (ctl *SubscriptionController) Join(c *fiber.Ctx) error {
	staffID, err := helper.GetStaffIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.JoinRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	ms, err := ctl.Svc.JoinWithCode(c.UserContext(), staffID, req.Code)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Berhasil bergabung", ms)
}

// POST /api/public/payments/midtrans/webhook
func (ctl *SubscriptionController) Webhook(c *fiber.Ctx) error {
	var p dto.WebhookPayload
	if err := c.BodyParser(&p); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if p.OrderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "order_id wajib diisi")
	}
	if err := ctl.Svc.HandleWebhook(c.UserContext(), p); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", nil)
}

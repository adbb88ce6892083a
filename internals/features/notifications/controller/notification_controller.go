package controller

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/notifications/service"
	helper "letme_backend/internals/helpers"
)

type NotificationController struct {
	Svc *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Svc: svc}
}

// GET /api/u/notifications?page=
func (ctl *NotificationController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	page := c.QueryInt("page", 1)
	res, err := ctl.Svc.List(c.UserContext(), userID, page)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if page < 1 {
		page = 1
	}
	pg := helper.BuildPaginationFromPage(res.Total, page, service.PerPage, len(res.Items))
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "ok",
		"data":       res.Items,
		"unread":     res.Unread,
		"pagination": pg,
	})
}

// PATCH /api/u/notifications/:id/read
func (ctl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.MarkRead(c.UserContext(), userID, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Notifikasi ditandai sudah dibaca", fiber.Map{"notification_id": id})
}

// PATCH /api/u/notifications/read-all
func (ctl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	n, err := ctl.Svc.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Semua notifikasi ditandai sudah dibaca", fiber.Map{"updated": n})
}

package helper

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/helpers/apperror"
)

// FromFiberError mengubah error dari service (apperror.Error atau *fiber.Error)
// menjadi response JSON standar. Error lain jadi 500 tanpa bocor pesan asli.
func FromFiberError(c *fiber.Ctx, err error) error {
	fe := apperror.ToFiber(err)
	return JsonError(c, fe.Code, fe.Message)
}

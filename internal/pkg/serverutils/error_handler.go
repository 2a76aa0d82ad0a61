package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"tyrechat-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware converts unhandled errors and panics into a branded
// JSON envelope. Raw error text never reaches the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Error("http", "panic recovered", map[string]interface{}{
					"path":  ctx.Path(),
					"panic": r,
				})
				_ = ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"code":    500,
					"message": "Something went wrong. Please try again.",
				})
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}

		log.Error("http", "request failed", map[string]interface{}{
			"path":  ctx.Path(),
			"code":  code,
			"error": err.Error(),
		})

		message := "Something went wrong. Please try again."
		if code < fiber.StatusInternalServerError {
			message = err.Error()
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": message,
		})
	}
}

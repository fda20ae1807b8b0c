package auth

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

var errLogger Logger = defLogger{}

// SetErrorLogger overrides the logger used when rendering error responses.
func SetErrorLogger(l Logger) {
	if l != nil {
		errLogger = l
	}
}

// ErrorHandler renders an auth error as a JSON response. Internal failures
// are logged with their metadata and collapsed into a generic message so no
// store detail reaches the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	detail := richErr.Message
	if richErr.Category == goerrors.CategoryInternal {
		errLogger.Error(
			"internal error handling request",
			"error", richErr.Message,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
		detail = "An unexpected error occurred"
		status = fiber.StatusInternalServerError
	}

	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}

	return c.Status(status).JSON(fiber.Map{
		"detail": detail,
	})
}

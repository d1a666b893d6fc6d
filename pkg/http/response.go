package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes data as the 200 body.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// ErrorResponse writes the error envelope.
func ErrorResponse(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorBody{
		Success: false,
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// BadRequestResponse writes a 400 for the output of ReadAndValidateRequest.
// The first validation message becomes the error text.
func BadRequestResponse(c echo.Context, data interface{}) error {
	msg := http.StatusText(http.StatusBadRequest)
	if errs, ok := data.([]ValidationError); ok && len(errs) > 0 && errs[0].Message != "" {
		msg = errs[0].Message
	}
	return ErrorResponse(c, http.StatusBadRequest, "ERR_BAD_REQUEST", msg, data)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "ERR_INTERNAL", "Something went wrong", nil)
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		var details interface{}
		if len(appErr.Params) > 0 {
			details = appErr.Params
		}
		return ErrorResponse(c, appErr.Status, appErr.Code, appErr.Message, details)
	}
	return InternalServerErrorResponse(c)
}

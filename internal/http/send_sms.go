package http

import (
	"errors"
	"net"
	"net/http"

	"github.com/jmehdipour/iovox-sms/internal/iovox"
	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/labstack/echo/v4"
)

// sendSMSHandler binds the form fields from JSON or a form post and runs one send.
func sendSMSHandler(svc Sender) echo.HandlerFunc {
	return func(c echo.Context) error {
		var f model.Fields
		if err := c.Bind(&f); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		out := svc.Send(c.Request().Context(), f)

		switch out.Kind {
		case model.KindSent:
			return c.JSON(http.StatusCreated, map[string]any{
				"sent":            true,
				"sms_activity_id": out.ActivityID,
				"request_id":      out.RequestID,
			})

		case model.KindInvalid:
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error":      out.Err.Error(),
				"request_id": out.RequestID,
			})

		case model.KindRejected:
			body := map[string]any{"error": out.Err.Error(), "request_id": out.RequestID}
			var apiErr *iovox.APIError
			if errors.As(out.Err, &apiErr) {
				body["error"] = apiErr.Message
				body["api_status"] = apiErr.Status
			}
			return c.JSON(http.StatusBadGateway, body)

		default:
			status := http.StatusBadGateway
			var ne net.Error
			if errors.As(out.Err, &ne) && ne.Timeout() {
				status = http.StatusGatewayTimeout
			}
			msg := "send failed"
			if out.Err != nil {
				msg = out.Err.Error()
			}
			return c.JSON(status, map[string]string{"error": msg, "request_id": out.RequestID})
		}
	}
}

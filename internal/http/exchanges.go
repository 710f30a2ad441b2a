package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/jmehdipour/iovox-sms/internal/repository"
	echo "github.com/labstack/echo/v4"
)

func listExchangesHandler(repo repository.ExchangesRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		var dir model.Direction
		if raw := strings.TrimSpace(c.QueryParam("direction")); raw != "" {
			tmp := model.Direction(strings.ToLower(raw))
			if tmp.Valid() {
				dir = tmp
			}
		}

		rows, err := repo.ListRecent(c.Request().Context(), repository.ExchangeFilter{
			RequestID: strings.TrimSpace(c.QueryParam("request_id")),
			Direction: dir,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			c.Logger().Errorf("journal list failed: %v", err)

			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(rows),
			"results": rows,
		})
	}
}

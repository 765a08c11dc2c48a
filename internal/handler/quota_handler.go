package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-resolver/internal/service/quota"
)

// QuotaHandler reports remaining daily budgets for the paid external
// services.
type QuotaHandler struct {
	tracker *quota.Tracker
}

// NewQuotaHandler constructs a QuotaHandler.
func NewQuotaHandler(tracker *quota.Tracker) *QuotaHandler {
	return &QuotaHandler{tracker: tracker}
}

// Status handles GET /admin/quota requests.
func (h *QuotaHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	statuses := make([]quota.Status, 0)
	for _, name := range h.tracker.Services() {
		statuses = append(statuses, h.tracker.CheckDailyLimit(ctx, name))
	}

	return Success(c, http.StatusOK, "quota status", statuses)
}

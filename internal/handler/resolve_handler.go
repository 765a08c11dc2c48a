package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-resolver/internal/dto"
	"github.com/octobees/contact-resolver/internal/repository"
	"github.com/octobees/contact-resolver/internal/service"
	"github.com/octobees/contact-resolver/internal/service/waterfall"
)

// ResolveHandler drives the discovery waterfall over stored contacts.
type ResolveHandler struct {
	resolve *service.ResolveService
}

// NewResolveHandler constructs a ResolveHandler.
func NewResolveHandler(resolve *service.ResolveService) *ResolveHandler {
	return &ResolveHandler{resolve: resolve}
}

// ResolveOne handles POST /resolve/:id requests.
func (h *ResolveHandler) ResolveOne(c echo.Context) error {
	contact, err := h.resolve.ResolveOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidContactID):
			return Error(c, http.StatusBadRequest, "invalid contact id")
		case errors.Is(err, repository.ErrContactNotFound):
			return Error(c, http.StatusNotFound, "contact not found")
		case errors.Is(err, waterfall.ErrQuotaExceeded):
			return Error(c, http.StatusTooManyRequests, "daily quota exceeded")
		default:
			return Error(c, http.StatusInternalServerError, "unable to resolve contact")
		}
	}

	return Success(c, http.StatusOK, "contact resolved", contact)
}

// ResolveBatch handles POST /resolve/batch requests.
func (h *ResolveHandler) ResolveBatch(c echo.Context) error {
	var req dto.ResolveBatchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	summary, err := h.resolve.ResolveBatch(c.Request().Context(), req.Limit)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to run batch resolution")
	}

	return Success(c, http.StatusOK, "batch resolution completed", summary)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-resolver/internal/dto"
	"github.com/octobees/contact-resolver/internal/service"
)

// IntakeHandler receives raw scraped businesses from the scrape worker.
type IntakeHandler struct {
	contacts *service.ContactsService
}

// NewIntakeHandler constructs an IntakeHandler.
func NewIntakeHandler(contacts *service.ContactsService) *IntakeHandler {
	return &IntakeHandler{contacts: contacts}
}

// Create handles POST /intake requests.
func (h *IntakeHandler) Create(c echo.Context) error {
	var req dto.IntakeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		return Error(c, http.StatusBadRequest, "business_name is required")
	}

	contact, err := h.contacts.IngestScraped(c.Request().Context(), service.RawScrapedBusiness{
		BusinessName:    req.BusinessName,
		Website:         req.Website,
		PrimaryPhone:    req.PrimaryPhone,
		SecondaryPhones: req.SecondaryPhones,
		Emails:          req.Emails,
		City:            req.City,
		Country:         req.Country,
	})
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to ingest business")
	}

	return Success(c, http.StatusCreated, "business ingested", contact)
}

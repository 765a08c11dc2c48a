package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-resolver/internal/dto"
	"github.com/octobees/contact-resolver/internal/repository"
	"github.com/octobees/contact-resolver/internal/service"
)

// ContactsHandler exposes read endpoints over the contact catalogue plus the
// admin CSV import.
type ContactsHandler struct {
	contacts *service.ContactsService
}

// NewContactsHandler constructs a ContactsHandler.
func NewContactsHandler(contacts *service.ContactsService) *ContactsHandler {
	return &ContactsHandler{contacts: contacts}
}

// List handles GET /contacts requests.
func (h *ContactsHandler) List(c echo.Context) error {
	filter := dto.ContactListFilter{
		Q:                  c.QueryParam("q"),
		Domain:             c.QueryParam("domain"),
		City:               c.QueryParam("city"),
		Country:            c.QueryParam("country"),
		VerificationStatus: c.QueryParam("verification_status"),
		Page:               parseIntDefault(c.QueryParam("page"), 1),
		PerPage:            parseIntDefault(c.QueryParam("per_page"), 20),
	}
	if raw := c.QueryParam("has_email"); raw != "" {
		hasEmail, err := strconv.ParseBool(raw)
		if err != nil {
			return Error(c, http.StatusBadRequest, "has_email must be a boolean")
		}
		filter.HasEmail = &hasEmail
	}

	contacts, err := h.contacts.ListContacts(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to list contacts")
	}

	return Success(c, http.StatusOK, "contacts retrieved", contacts)
}

// Get handles GET /contacts/:id requests.
func (h *ContactsHandler) Get(c echo.Context) error {
	contact, err := h.contacts.GetContact(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidContactID):
			return Error(c, http.StatusBadRequest, "invalid contact id")
		case errors.Is(err, repository.ErrContactNotFound):
			return Error(c, http.StatusNotFound, "contact not found")
		default:
			return Error(c, http.StatusInternalServerError, "unable to fetch contact")
		}
	}

	return Success(c, http.StatusOK, "contact retrieved", contact)
}

// Export handles GET /contacts/:id/export requests.
func (h *ContactsHandler) Export(c echo.Context) error {
	export, err := h.contacts.ExportView(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidContactID):
			return Error(c, http.StatusBadRequest, "invalid contact id")
		case errors.Is(err, repository.ErrContactNotFound):
			return Error(c, http.StatusNotFound, "contact not found")
		default:
			return Error(c, http.StatusInternalServerError, "unable to export contact")
		}
	}

	return Success(c, http.StatusOK, "contact exported", export)
}

// ImportCSV handles POST /admin/contacts/import requests carrying a CSV of
// scraped businesses.
func (h *ContactsHandler) ImportCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "csv file is required (multipart field \"file\")")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open uploaded file")
	}
	defer file.Close()

	summary, err := h.contacts.ImportContactsCSV(c.Request().Context(), file)
	if err != nil {
		var valErr service.CSVValidationError
		if errors.As(err, &valErr) {
			return Error(c, http.StatusBadRequest, valErr.Message)
		}
		return Error(c, http.StatusInternalServerError, "unable to import contacts")
	}

	return Success(c, http.StatusOK, "import completed", summary)
}

func parseIntDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

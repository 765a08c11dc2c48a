package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/contact-resolver/internal/dto"
	"github.com/octobees/contact-resolver/internal/entity"
	"github.com/octobees/contact-resolver/internal/repository"
	"github.com/octobees/contact-resolver/internal/service/emailcheck"
)

// ErrInvalidContactID indicates the supplied identifier is not a UUID.
var ErrInvalidContactID = errors.New("invalid contact id")

// ContactsService exposes read/write operations for the contact catalogue.
type ContactsService struct {
	repo   repository.ContactsRepository
	intake *IntakeProcessor
}

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// ImportSummary reports how many rows were ingested during a bulk import.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// NewContactsService creates a new instance of ContactsService.
func NewContactsService(repo repository.ContactsRepository, intake *IntakeProcessor) *ContactsService {
	return &ContactsService{repo: repo, intake: intake}
}

// ListContacts returns contacts respecting pagination defaults.
func (s *ContactsService) ListContacts(ctx context.Context, filter dto.ContactListFilter) ([]entity.BusinessContact, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	return s.repo.List(ctx, filter)
}

// GetContact fetches a single contact by its string identifier.
func (s *ContactsService) GetContact(ctx context.Context, id string) (*entity.BusinessContact, error) {
	contactID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidContactID
	}
	return s.repo.GetByID(ctx, contactID)
}

// IngestScraped cleans a raw scraped payload and stores it as a contact.
// Addresses published on the business's own pages count as verified; the
// best one on offer (personal preferred over generic) seeds the record.
func (s *ContactsService) IngestScraped(ctx context.Context, input RawScrapedBusiness) (*entity.BusinessContact, error) {
	cleaned, err := s.intake.Process(ctx, input)
	if err != nil {
		return nil, err
	}

	contact := contactFromCleaned(cleaned)
	if err := s.repo.Upsert(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// ExportView projects a contact into the shape outreach exports consume.
// Consumers key off the verification status, never the boolean, so RISKY and
// UNCHECKED stay distinguishable.
func (s *ContactsService) ExportView(ctx context.Context, id string) (*dto.ContactExport, error) {
	contact, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}

	export := &dto.ContactExport{
		ID:                 contact.ID.String(),
		BusinessName:       contact.BusinessName,
		GreetingName:       contact.GreetingName(),
		NameIsFallback:     contact.NameIsFallback,
		VerificationStatus: string(contact.EmailVerificationStatus),
	}
	if contact.Email != nil {
		export.Email = *contact.Email
		export.EmailIsGeneric = emailcheck.IsGeneric(*contact.Email)
	}
	if contact.OwnerFirstName != nil {
		export.OwnerFirstName = *contact.OwnerFirstName
	}
	if contact.OwnerLastName != nil {
		export.OwnerLastName = *contact.OwnerLastName
	}
	return export, nil
}

var requiredCSVHeaders = []string{"business_name", "website", "phone", "email", "city", "country"}

// ImportContactsCSV ingests scraped businesses from a CSV reader.
func (s *ContactsService) ImportContactsCSV(ctx context.Context, r io.Reader) (ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ImportSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return ImportSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return ImportSummary{}, valErr
	}

	var summary ImportSummary
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("read csv row: %w", err)
		}
		summary.Total++

		raw := RawScrapedBusiness{
			BusinessName: row[indexMap["business_name"]],
			Website:      row[indexMap["website"]],
			PrimaryPhone: row[indexMap["phone"]],
			City:         row[indexMap["city"]],
			Country:      row[indexMap["country"]],
		}
		if email := strings.TrimSpace(row[indexMap["email"]]); email != "" {
			raw.Emails = []string{email}
		}
		if strings.TrimSpace(raw.BusinessName) == "" {
			summary.Skipped++
			continue
		}

		if _, err := s.IngestScraped(ctx, raw); err != nil {
			summary.Skipped++
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func contactFromCleaned(cleaned CleanedBusiness) *entity.BusinessContact {
	contact := &entity.BusinessContact{
		ID:                      uuid.New(),
		BusinessName:            cleaned.BusinessName,
		WebsiteURL:              optional(cleaned.WebsiteURL),
		Domain:                  optional(cleaned.Domain),
		City:                    optional(cleaned.City),
		Country:                 optional(cleaned.Country),
		EmailVerificationStatus: entity.VerificationUnchecked,
	}
	if len(cleaned.Phones) > 0 {
		contact.Phone = &cleaned.Phones[0]
	}

	best := pickBestEmail(cleaned.Emails)
	if best != "" {
		contact.SetEmail(best, entity.EmailSourceWebsiteScrape)
		emailcheck.MarkPublished(contact)
	}
	return contact
}

// pickBestEmail prefers the first personal address over any generic one.
func pickBestEmail(emails []string) string {
	generic := ""
	for _, email := range emails {
		if emailcheck.IsPersonal(email) {
			return email
		}
		if generic == "" && emailcheck.IsGeneric(email) {
			generic = email
		}
	}
	return generic
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

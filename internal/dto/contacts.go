package dto

// ContactListFilter contains query parameters for contact listing endpoints.
type ContactListFilter struct {
	Q                  string
	Domain             string
	City               string
	Country            string
	VerificationStatus string
	HasEmail           *bool
	Page               int
	PerPage            int
}

// ContactExport is the projection outreach campaigns consume. Export filters
// key off VerificationStatus so risky and never-checked addresses are not
// conflated.
type ContactExport struct {
	ID                 string `json:"id"`
	BusinessName       string `json:"business_name"`
	OwnerFirstName     string `json:"owner_first_name,omitempty"`
	OwnerLastName      string `json:"owner_last_name,omitempty"`
	GreetingName       string `json:"greeting_name"`
	NameIsFallback     bool   `json:"name_is_fallback"`
	Email              string `json:"email,omitempty"`
	EmailIsGeneric     bool   `json:"email_is_generic"`
	VerificationStatus string `json:"email_verification_status"`
}

package dto

// IntakeRequest is the raw payload posted by the scrape worker for one
// business.
type IntakeRequest struct {
	BusinessName    string   `json:"business_name"`
	Website         string   `json:"website,omitempty"`
	PrimaryPhone    string   `json:"primary_phone,omitempty"`
	SecondaryPhones []string `json:"secondary_phones,omitempty"`
	Emails          []string `json:"emails,omitempty"`
	City            string   `json:"city,omitempty"`
	Country         string   `json:"country,omitempty"`
}

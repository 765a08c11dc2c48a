package dto

// ResolveBatchRequest bounds a batch resolution run.
type ResolveBatchRequest struct {
	Limit int `json:"limit,omitempty"`
}

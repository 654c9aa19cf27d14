package dto

// ErrorResponse is the bare failure body of the batch endpoint and of the auth middleware
// in front of it. Batch callers read only the error field.
type ErrorResponse struct {
	Error string `json:"error"`
}

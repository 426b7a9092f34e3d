package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PageEnvelope is the body of every list endpoint.
type PageEnvelope struct {
	Data any      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type PageMeta struct {
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

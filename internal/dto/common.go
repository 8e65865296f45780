package dto

// ErrorResponse is the uniform error body returned by all handlers. Code is a
// stable machine-readable identifier; Error is a human-readable message.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ListParams carries the common pagination query parameters.
type ListParams struct {
	Limit     int     `form:"limit"`
	Offset    int     `form:"offset"`
	NextToken *string `form:"nextToken"`
}

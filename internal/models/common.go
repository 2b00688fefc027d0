package models

// APIResponse is the standard JSON envelope for API endpoints.
type APIResponse struct {
	Status bool        `json:"status"`
	Msg    string      `json:"msg"`
	Obj    interface{} `json:"obj"`
}

// APIError is the envelope for error responses carrying a machine-readable code.
type APIError struct {
	Status bool   `json:"status"`
	Code   string `json:"code"`
	Msg    string `json:"msg"`
}

// PaginatedResponse wraps list payloads with paging info.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

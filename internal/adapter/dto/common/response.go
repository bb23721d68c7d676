package common

// PaginationResponse represents offset pagination metadata
type PaginationResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ListResponse represents a paginated list response
type ListResponse struct {
	Items      interface{}         `json:"items"`
	Pagination *PaginationResponse `json:"pagination,omitempty"`
}

// PageQuery binds limit and offset query parameters
type PageQuery struct {
	Limit  int `query:"limit" validate:"omitempty,min=0"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

package models

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResult is the pagination envelope shared by every list endpoint.
type PageResult struct {
	Records      interface{} `json:"records"`
	TotalRecords int64       `json:"totalRecords"`
	TotalPages   int64       `json:"totalPages"`
	CurrentPage  int64       `json:"currentPage"`
}

package api

import (
	"github.com/starford/papercheck/internal/models"
)

// CheckDocumentRequest is the request body for checking a library document.
type CheckDocumentRequest struct {
	Path string `json:"path" example:"papers/draft.docx"`
}

// DocumentListResponse wraps the library listing.
type DocumentListResponse struct {
	Documents []models.DocumentMetadata `json:"documents"`
	Total     int                       `json:"total" example:"3"`
}

// RunListResponse wraps paginated run listings.
type RunListResponse struct {
	Runs  []models.Run `json:"runs"`
	Total int          `json:"total" example:"42"`
}

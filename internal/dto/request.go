package dto

// DashboardRequest represents the dashboard query parameters
type DashboardRequest struct {
	Status    string `form:"status" example:"new"`
	Search    string `form:"search" example:"jazz"`
	IsAdmin   string `form:"isAdmin" example:"true"`
	StartDate string `form:"startDate" example:"2025-01-01"`
	// EndDate is inclusive. A date without a time (YYYY-MM-DD) covers the
	// whole day, up to 23:59:59.999 UTC.
	EndDate string `form:"endDate" example:"2025-01-31"`
	City    string `form:"city" example:"Sydney"`
}

// CreateLeadRequest represents a ticket lead submission
type CreateLeadRequest struct {
	Email   string `json:"email" binding:"required,email" example:"fan@example.com"`
	Consent bool   `json:"consent" example:"true"`
	EventID string `json:"eventId" example:"65a1f0c2e4b0a1b2c3d4e5f6"`
}

// ImportEventRequest represents the optional body of an import
type ImportEventRequest struct {
	ImportNotes string `json:"importNotes" example:"Featured on the homepage"`
}

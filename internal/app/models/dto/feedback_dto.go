package dto

import "github.com/kerems/akademix/internal/app/models"

// SubmitFeedbackRequest represents a new feedback draft
type SubmitFeedbackRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// UpdateFeedbackStatusRequest moves a feedback entry through its lifecycle
type UpdateFeedbackStatusRequest struct {
	Status models.FeedbackStatus `json:"status" binding:"required"`
}

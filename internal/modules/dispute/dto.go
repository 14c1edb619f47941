package dispute

import "landshare/internal/domain"

type FileDisputeRequest struct {
	BookingID       int64                `json:"booking_id" binding:"required"`
	Reason          domain.DisputeReason `json:"reason" binding:"required"`
	Description     string               `json:"description" binding:"required"`
	Evidence        []string             `json:"evidence"`
	RequestedAmount *float64             `json:"requested_amount"`
}

type AppendMessageRequest struct {
	Content     string   `json:"content" binding:"required"`
	Attachments []string `json:"attachments"`
	IsInternal  bool     `json:"is_internal"`
}

type ResolveRequest struct {
	Resolution     domain.DisputeResolution `json:"resolution" binding:"required"`
	ResolvedAmount float64                  `json:"resolved_amount"`
	Notes          string                   `json:"notes"`
}

type CloseRequest struct {
	Note string `json:"note"`
}

type ListFilter struct {
	Status    *domain.DisputeStatus
	BookingID *int64
	Limit     int
	Offset    int
}

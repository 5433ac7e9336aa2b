package dto

// Request DTOs

// QueueStatusRequest lists the device-held refs an anonymous client wants
// status for. Authenticated clients may send an empty body; their tokens
// are looked up by patient id.
type QueueStatusRequest struct {
	TokenRefs []TokenRefRequest `json:"token_refs" validate:"omitempty,max=20,dive"`
}

// Response DTOs

type QueueStatusResponse struct {
	Tokens []QueueTokenResponse `json:"tokens"`
	Total  int                  `json:"total"`
}

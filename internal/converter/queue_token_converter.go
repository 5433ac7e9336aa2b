package converter

import (
	"github.com/google/uuid"

	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/domain/entity"
)

// QueueTokenToResponse converts a QueueToken entity to QueueTokenResponse DTO
func QueueTokenToResponse(token *entity.QueueToken) *dto.QueueTokenResponse {
	if token == nil {
		return nil
	}

	response := &dto.QueueTokenResponse{
		ID:                token.ID,
		ClinicID:          token.ClinicID,
		TokenNumber:       token.TokenNumber,
		Status:            string(token.Status),
		EstimatedWaitTime: token.EstimatedWaitTime,
		CreatedAt:         token.CreatedAt,
		UpdatedAt:         token.UpdatedAt,
	}

	// Include clinic info if preloaded
	if token.Clinic.ID != uuid.Nil {
		response.Clinic = ClinicToResponse(&token.Clinic)
	}

	return response
}

// QueueTokensToResponses converts a slice of QueueToken entities to QueueTokenResponse DTOs
func QueueTokensToResponses(tokens []entity.QueueToken) []dto.QueueTokenResponse {
	responses := make([]dto.QueueTokenResponse, len(tokens))
	for i, token := range tokens {
		resp := QueueTokenToResponse(&token)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// TokenRefsFromRequests converts request refs into domain refs
func TokenRefsFromRequests(refs []dto.TokenRefRequest) []entity.TokenRef {
	out := make([]entity.TokenRef, len(refs))
	for i, ref := range refs {
		out[i] = entity.TokenRef{ClinicID: ref.ClinicID, TokenNumber: ref.TokenNumber}
	}
	return out
}

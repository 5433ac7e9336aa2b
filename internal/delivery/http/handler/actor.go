package handler

import (
	"context"

	"findmyclinic/internal/converter"
	"findmyclinic/internal/delivery/dto"
	"findmyclinic/internal/delivery/http/middleware"
	"findmyclinic/internal/domain/entity"
)

// resolveActor builds the acting identity for a request: an authenticated
// user when the optional-auth middleware attached one, otherwise an
// anonymous actor carrying the device-held token refs from the payload.
func resolveActor(ctx context.Context, refs []dto.TokenRefRequest) entity.Actor {
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		return entity.AuthenticatedActor(userID)
	}
	return entity.AnonymousActor(converter.TokenRefsFromRequests(refs))
}

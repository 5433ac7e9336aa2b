package entity

import "github.com/google/uuid"

// TokenRef is a device-held reference to a previously issued token.
// Anonymous clients persist these locally and send them with each request;
// they are never synchronized across devices.
type TokenRef struct {
	ClinicID    uuid.UUID `json:"clinic_id"`
	TokenNumber int       `json:"token_number"`
}

// Actor is the resolved identity behind a booking request: either an
// authenticated user or an anonymous device identified only by the token
// references it carries.
type Actor struct {
	UserID    *uuid.UUID
	TokenRefs []TokenRef
}

// AuthenticatedActor builds an actor backed by a user account
func AuthenticatedActor(userID uuid.UUID) Actor {
	return Actor{UserID: &userID}
}

// AnonymousActor builds an actor identified by device-held token refs
func AnonymousActor(refs []TokenRef) Actor {
	return Actor{TokenRefs: refs}
}

// IsAuthenticated reports whether the actor is backed by a user account
func (a Actor) IsAuthenticated() bool {
	return a.UserID != nil
}

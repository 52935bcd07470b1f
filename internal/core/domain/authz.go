package domain

import "github.com/google/uuid"

// Actor is the trusted identity a verified token resolves to. It lives for
// one request only; services receive it by value and never retain it.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// Ownership gates. Role sets per endpoint are declared at route registration;
// these two checks cover the per-resource dimension. They assume the resource
// has already been loaded, so a missing resource surfaces as not-found before
// any forbidden answer.

// CanRead reports whether a user with the given role may view a resource
// owned by ownerID. Workers see only their own resources; winemakers and
// admins see everything.
func (r Role) CanRead(userID, ownerID uuid.UUID) bool {
	return r != RoleWorker || userID == ownerID
}

// CanModify reports whether a user may mutate or delete a resource owned by
// ownerID. Only the owner or an admin may mutate.
func (r Role) CanModify(userID, ownerID uuid.UUID) bool {
	return r == RoleAdmin || userID == ownerID
}

package auth

import (
	"context"
	"errors"
	"time"
)

// Reconciler maps a verified external identity to exactly one durable User.
type Reconciler struct {
	users UserStore
	now   func() time.Time
}

func NewReconciler(users UserStore) *Reconciler {
	return &Reconciler{users: users, now: time.Now}
}

// Reconcile finds or creates the User for the identity's email and merges
// profile fields from the provider.
//
// Email verification is monotonic: a verified identity marks an unverified
// record verified, and nothing ever clears the timestamp - not even a later
// provider asserting unverified. Store failures (including losing a
// concurrent first-login race to ErrEmailTaken) surface to the caller; the
// sign-in aborts rather than falling back to an anonymous session.
func (r *Reconciler) Reconcile(ctx context.Context, identity Identity) (User, error) {
	user, err := r.users.FindUserByEmail(ctx, identity.Email)
	if errors.Is(err, ErrUserNotFound) {
		return r.create(ctx, identity)
	}
	if err != nil {
		return User{}, errors.Join(ErrStoreFailure, err)
	}

	changed := false
	if identity.Name != "" && identity.Name != user.Name {
		user.Name = identity.Name
		changed = true
	}
	if identity.AvatarURL != "" && identity.AvatarURL != user.Image {
		user.Image = identity.AvatarURL
		changed = true
	}
	if identity.EmailVerified && user.EmailVerifiedAt == nil {
		now := r.now()
		user.EmailVerifiedAt = &now
		changed = true
	}

	if !changed {
		return user, nil
	}

	updated, err := r.users.UpdateUser(ctx, user)
	if err != nil {
		return User{}, errors.Join(ErrStoreFailure, err)
	}
	return updated, nil
}

func (r *Reconciler) create(ctx context.Context, identity Identity) (User, error) {
	user := User{
		Email: identity.Email,
		Name:  identity.Name,
		Image: identity.AvatarURL,
	}
	if identity.EmailVerified {
		now := r.now()
		user.EmailVerifiedAt = &now
	}

	created, err := r.users.CreateUser(ctx, user)
	if err != nil {
		// ErrEmailTaken here means a concurrent first-login won the race;
		// the caller may retry and will then find the winner's record.
		return User{}, errors.Join(ErrStoreFailure, err)
	}
	return created, nil
}

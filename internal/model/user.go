package model

import (
	"errors"
	"time"
)

// User roles
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User represents a user in the system
type User struct {
	ID          int64      `db:"id" json:"id"`
	Username    string     `db:"username" json:"username"`
	DisplayName *string    `db:"display_name" json:"display_name"`
	AvatarURL   *string    `db:"avatar_url" json:"avatar_url"`
	Bio         *string    `db:"bio" json:"bio"`
	Role        string     `db:"role" json:"role"`
	IsMuted     bool       `db:"is_muted" json:"-"`
	MutedUntil  *time.Time `db:"muted_until" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// CanModerate reports whether the user holds a staff role.
func (u *User) CanModerate() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

// MuteState returns whether the user is currently muted and whether the
// mute is permanent. A mute with muted_until in the future is temporary;
// is_muted=true with a null muted_until is permanent.
func (u *User) MuteState(now time.Time) (muted bool, permanent bool) {
	if u.MutedUntil != nil && u.MutedUntil.After(now) {
		return true, false
	}
	if u.IsMuted && u.MutedUntil == nil {
		return true, true
	}
	return false, false
}

// UserSummary is a lightweight user representation for joined display fields.
type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	DisplayName *string `db:"display_name" json:"display_name"`
	AvatarURL   *string `db:"avatar_url" json:"avatar_url"`
}

// Auth error codes surfaced by the JWT middleware
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrPermissionDenied is returned when the actor lacks the required role
	// (comment author, target owner, or admin/moderator)
	ErrPermissionDenied = errors.New("permission denied: requires comment author, target owner, or moderator role")

	// ErrUserMuted is returned when a temporarily muted user tries to post
	ErrUserMuted = errors.New("account is temporarily muted")

	// ErrUserMutedPermanently is returned when a permanently muted user tries to post
	ErrUserMutedPermanently = errors.New("account is permanently muted (永久禁言)")
)

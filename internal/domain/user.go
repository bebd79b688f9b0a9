// Package domain contains the core business entities for Group Order Hub.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the group ordering system.
package domain

// User represents a registered member of the ordering system.
// Every user belongs to exactly one group, identified by free-text name.
type User struct {
	// ID is the unique identifier for the user. Unlike the other
	// entities, user IDs are recycled: an ID freed by deletion is
	// reused by the next created user, smallest first.
	ID int64 `json:"id"`

	// Username is the unique login name. Uniqueness is enforced by the
	// service layer at registration time, not by the store.
	Username string `json:"username"`

	// Password is the opaque credential blob (a bcrypt hash in practice).
	// It is persisted with the user record and must be redacted before
	// any API response leaves the process.
	Password string `json:"password"`

	// FirstName is the user's given name.
	FirstName string `json:"firstName"`

	// LastName is the user's family name.
	LastName string `json:"lastName"`

	// GroupName is the organizational cohort the user belongs to.
	// Conventionally of the form "<Name> <level>" (e.g. "Team 3"), but
	// free-form names are accepted and simply exempt from promotion.
	GroupName string `json:"groupName"`

	// Email is the user's contact address.
	Email string `json:"email"`

	// IsCoordinator marks group coordinators, who can view and process
	// the orders of their group.
	IsCoordinator bool `json:"isCoordinator"`

	// IsAdmin marks full administrators.
	IsAdmin bool `json:"isAdmin"`

	// IsUserAdmin marks user-management administrators, who manage
	// accounts and groups but are not full administrators.
	IsUserAdmin bool `json:"isUserAdmin"`
}

// UserPatch describes a partial update to a user record. Nil fields are
// left untouched; non-nil fields overwrite the stored value, including
// overwrites with the zero value (empty string, false).
type UserPatch struct {
	Username      *string
	Password      *string
	FirstName     *string
	LastName      *string
	GroupName     *string
	Email         *string
	IsCoordinator *bool
	IsAdmin       *bool
	IsUserAdmin   *bool
}

// Apply merges the patch into the given user.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.GroupName != nil {
		u.GroupName = *p.GroupName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.IsCoordinator != nil {
		u.IsCoordinator = *p.IsCoordinator
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	if p.IsUserAdmin != nil {
		u.IsUserAdmin = *p.IsUserAdmin
	}
}

package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleRider Role = "rider"
	RoleAdmin Role = "admin"
)

// ParseRole normalises a stored or user supplied role (trimmed,
// case-insensitive). The boolean is false for anything unrecognised.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleRider:
		return RoleRider, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Is compares roles the same way everywhere: trimmed and case-insensitive.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), strings.TrimSpace(string(other)))
}

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityContacts Visibility = "contacts"
	VisibilityPublic   Visibility = "public"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityContacts, VisibilityPublic:
		return true
	}
	return false
}

// Account is the persisted identity record for a rider or administrator.
type Account struct {
	ID            string
	Username      string
	Email         string
	ContactNumber string
	PasswordHash  string `json:"-"` // empty for OAuth-only accounts
	Role          Role
	AuthProvider  AuthProvider
	GoogleID      string // empty until linked
	Picture       string
	DeviceID      string
	EmailVerified bool
	PhoneVerified bool

	TwoFactor TwoFactor
	Security  Security

	ResetTokenHash      string `json:"-"` // fingerprint of the mailed token
	ResetTokenExpiresAt *time.Time

	Contacts []Contact

	// Version is bumped on every write and used for optimistic concurrency.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (a Account) HasPassword() bool { return a.PasswordHash != "" }
func (a Account) IsDeleted() bool   { return a.DeletedAt != nil }

type TwoFactor struct {
	Enabled   bool
	Secret    string `json:"-"`
	EnabledAt *time.Time
}

type Security struct {
	Visibility               Visibility
	TokenVersion             int
	BackupCodesRegeneratedAt *time.Time
}

// AccountPatch holds the fields an update may change. Nil means "leave as
// is". Password is plaintext; the store never sees it.
type AccountPatch struct {
	Username      *string
	Email         *string
	ContactNumber *string
	Password      *string
	Picture       *string
	DeviceID      *string
	EmailVerified *bool
	PhoneVerified *bool
	Visibility    *Visibility
}

// IsEmpty reports whether the patch changes nothing.
func (p AccountPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.ContactNumber == nil &&
		p.Password == nil && p.Picture == nil && p.DeviceID == nil &&
		p.EmailVerified == nil && p.PhoneVerified == nil && p.Visibility == nil
}

// Principal is what the authorization middleware attaches to a request.
type Principal struct {
	ID       string
	Role     Role
	Email    string
	Username string
}

func (a Account) Principal() Principal {
	return Principal{ID: a.ID, Role: a.Role, Email: a.Email, Username: a.Username}
}

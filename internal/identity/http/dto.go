package http

import (
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/pkg/identitysdk"
)

// toAccount is the only way an account leaves the service. Secrets and
// reset-token state have no field to land in.
func toAccount(a domain.Account) identitysdk.Account {
	contacts := make([]identitysdk.Contact, 0, len(a.Contacts))
	for _, c := range a.Contacts {
		contacts = append(contacts, toContact(c))
	}
	return identitysdk.Account{
		ID:               a.ID,
		Username:         a.Username,
		Email:            a.Email,
		ContactNumber:    a.ContactNumber,
		Role:             string(a.Role),
		AuthProvider:     string(a.AuthProvider),
		GoogleLinked:     a.GoogleID != "",
		Picture:          a.Picture,
		DeviceID:         a.DeviceID,
		EmailVerified:    a.EmailVerified,
		PhoneVerified:    a.PhoneVerified,
		TwoFactorEnabled: a.TwoFactor.Enabled,
		Visibility:       string(a.Security.Visibility),
		Contacts:         contacts,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toAccounts(as []domain.Account) []identitysdk.Account {
	out := make([]identitysdk.Account, 0, len(as))
	for _, a := range as {
		out = append(out, toAccount(a))
	}
	return out
}

func toContact(c domain.Contact) identitysdk.Contact {
	return identitysdk.Contact{
		ID:            c.ID,
		Name:          c.Name,
		Relation:      c.Relation,
		ContactNumber: c.ContactNumber,
		Email:         c.Email,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toContacts(cs []domain.Contact) []identitysdk.Contact {
	out := make([]identitysdk.Contact, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContact(c))
	}
	return out
}

func contactInput(req identitysdk.ContactRequest) domain.ContactInput {
	return domain.ContactInput{
		Name:          req.Name,
		Relation:      req.Relation,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
	}
}

// accountPatch maps an update request. Profile updates decode into the
// same struct so that a password or verification flag sent to /profile is
// reported rather than silently dropped.
func accountPatch(req identitysdk.UpdateUserRequest) domain.AccountPatch {
	p := domain.AccountPatch{
		Username:      req.Username,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Password:      req.Password,
		Picture:       req.Picture,
		DeviceID:      req.DeviceID,
		EmailVerified: req.EmailVerified,
		PhoneVerified: req.PhoneVerified,
	}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		p.Visibility = &v
	}
	return p
}

func sessionResponse(s domain.Session, message string) identitysdk.SessionResponse {
	return identitysdk.SessionResponse{
		Success:   true,
		Message:   message,
		Token:     s.Token,
		Account:   toAccount(s.Account),
		IsNewUser: s.IsNewUser,
	}
}

package service

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/pkg/slogx"
)

// ContactService manages the emergency contacts embedded in an account.
// Every write replaces the whole list under the account's version check, so
// concurrent edits retry instead of overwriting each other.
type ContactService struct {
	Accounts *AccountService
}

func (s *ContactService) List(ctx context.Context, accountID string) ([]domain.Contact, error) {
	a, err := s.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a.Contacts == nil {
		return []domain.Contact{}, nil
	}
	return a.Contacts, nil
}

// Add appends a contact. The sixth contact is rejected and the list is left
// as it was.
func (s *ContactService) Add(ctx context.Context, accountID string, in domain.ContactInput) (domain.Contact, error) {
	in = normaliseContact(in)
	if err := validationError(s.Accounts.Validator.Contact(in)); err != nil {
		return domain.Contact{}, err
	}

	var added domain.Contact
	_, err := s.Accounts.mutate(ctx, accountID, func(_ context.Context, _ store.Tx, a *domain.Account) error {
		if len(a.Contacts) >= domain.MaxContacts {
			return ErrTooManyContacts
		}
		now := s.Accounts.now()
		added = domain.Contact{
			ID:            uuid.NewString(),
			Name:          in.Name,
			Relation:      in.Relation,
			ContactNumber: in.ContactNumber,
			Email:         in.Email,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		a.Contacts = append(a.Contacts, added)
		return nil
	})
	if err != nil {
		return domain.Contact{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "contact added", "account_id", accountID, "contact_id", added.ID)
	return added, nil
}

// Update replaces the fields of one contact.
func (s *ContactService) Update(ctx context.Context, accountID, contactID string, in domain.ContactInput) (domain.Contact, error) {
	in = normaliseContact(in)
	if err := validationError(s.Accounts.Validator.Contact(in)); err != nil {
		return domain.Contact{}, err
	}

	var updated domain.Contact
	_, err := s.Accounts.mutate(ctx, accountID, func(_ context.Context, _ store.Tx, a *domain.Account) error {
		i := indexContact(a.Contacts, contactID)
		if i < 0 {
			return ErrContactNotFound
		}
		c := &a.Contacts[i]
		c.Name = in.Name
		c.Relation = in.Relation
		c.ContactNumber = in.ContactNumber
		c.Email = in.Email
		c.UpdatedAt = s.Accounts.now()
		updated = *c
		return nil
	})
	if err != nil {
		return domain.Contact{}, err
	}
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, accountID, contactID string) error {
	_, err := s.Accounts.mutate(ctx, accountID, func(_ context.Context, _ store.Tx, a *domain.Account) error {
		i := indexContact(a.Contacts, contactID)
		if i < 0 {
			return ErrContactNotFound
		}
		a.Contacts = slices.Delete(a.Contacts, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "contact deleted", "account_id", accountID, "contact_id", contactID)
	return nil
}

func indexContact(cs []domain.Contact, id string) int {
	return slices.IndexFunc(cs, func(c domain.Contact) bool { return c.ID == id })
}

func normaliseContact(in domain.ContactInput) domain.ContactInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Relation = strings.TrimSpace(in.Relation)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.Email = NormaliseEmail(in.Email)
	return in
}

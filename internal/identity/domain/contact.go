package domain

import "time"

// MaxContacts is the cap on emergency contacts per account.
const MaxContacts = 5

// Contact is an emergency contact embedded in an Account.
type Contact struct {
	ID            string
	Name          string
	Relation      string
	ContactNumber string
	Email         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ContactInput struct {
	Name          string
	Relation      string
	ContactNumber string
	Email         string
}

/*
Package identitysdk is a Go client for the RideSafe identity service and
the wire types the service speaks.

Public operations live on Client:

	client := identitysdk.NewClient("https://identity.example.com")

	s, err := client.Login(ctx, identitysdk.LoginRequest{Identifier: "ada@example.com", Password: pw})
	if identitysdk.IsTwoFactorRequired(err) {
		s, err = client.Login(ctx, identitysdk.LoginRequest{Identifier: "ada@example.com", Password: pw, Code: totp})
	}

A successful sign-in returns a Session, which carries the bearer token and
exposes every authenticated operation:

	me, err := s.Verify(ctx)
	contact, err := s.AddContact(ctx, identitysdk.ContactRequest{Name: "Mum", Relation: "parent", ContactNumber: "+61400000001"})

Sessions are stateless bearer tokens. Changing the password returns a new
token, which the Session adopts; every other token for the account stops
working.

Every non-2xx response is returned as an *APIError carrying the status,
the message and any per-field violations.
*/
package identitysdk

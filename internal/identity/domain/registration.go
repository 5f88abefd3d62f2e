package domain

// Registration is the input to local account creation.
type Registration struct {
	Username        string
	Email           string
	ContactNumber   string
	Password        string
	ConfirmPassword string
	DeviceID        string
}

// Session is returned by every successful sign-in.
type Session struct {
	Token     string
	Account   Account
	IsNewUser bool
}

package domain

// Assertion is a verified third-party identity.
type Assertion struct {
	SubjectID     string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

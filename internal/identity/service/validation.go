package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 15
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

var fieldLabels = map[string]string{
	"username":        "Username",
	"email":           "Email",
	"contactNumber":   "Contact number",
	"password":        "Password",
	"confirmPassword": "Confirm password",
	"name":            "Name",
	"relation":        "Relation",
	"picture":         "Picture",
	"deviceId":        "Device id",
	"visibility":      "Visibility",
	"role":            "Role",
}

// Validator checks client input and reports every failed rule, never just
// the first one.
type Validator struct {
	validate       *validator.Validate
	allowedDomains map[string]struct{}
}

// NewValidator builds a Validator. An empty domain list allows any domain.
func NewValidator(allowedDomains []string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	domains := make(map[string]struct{}, len(allowedDomains))
	for _, d := range allowedDomains {
		d = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(d, "@")))
		if d != "" {
			domains[d] = struct{}{}
		}
	}
	return &Validator{validate: v, allowedDomains: domains}
}

// Field runs each rule of a validator tag against one value and names the
// violations after field. Rules are checked one at a time so every broken
// rule is reported; a failed "required" ends the check.
func (v *Validator) Field(field string, value any, tag string) []apperror.Violation {
	var out []apperror.Violation
	for _, rule := range strings.Split(tag, ",") {
		err := v.validate.Var(value, rule)
		if err == nil {
			continue
		}
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return append(out, violation(field, label(field)+" is invalid"))
		}
		for _, fe := range errs {
			out = append(out, violation(field, describe(field, fe)))
		}
		if rule == "required" {
			return out
		}
	}
	return out
}

func (v *Validator) Username(field, username string) []apperror.Violation {
	return v.Field(field, username, "required,min=3,max=30,username")
}

func (v *Validator) ContactNumber(field, number string) []apperror.Violation {
	return v.Field(field, number, "required,phone")
}

// Email checks the address form and then the domain allow-list.
func (v *Validator) Email(field, email string) []apperror.Violation {
	if out := v.Field(field, email, "required,email,max=254"); len(out) > 0 {
		return out
	}
	if !v.EmailDomainAllowed(email) {
		return []apperror.Violation{violation(field, "Email domain is not allowed")}
	}
	return nil
}

// EmailDomainAllowed reports whether the address's domain is allow-listed.
func (v *Validator) EmailDomainAllowed(email string) bool {
	if len(v.allowedDomains) == 0 {
		return true
	}
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	_, ok := v.allowedDomains[strings.ToLower(email[at+1:])]
	return ok
}

// Password applies the complexity policy. Each unmet rule is its own
// violation.
func (v *Validator) Password(field, password string) []apperror.Violation {
	if password == "" {
		return []apperror.Violation{violation(field, label(field)+" is required")}
	}

	var out []apperror.Violation
	if n := utf8.RuneCountInString(password); n < PasswordMinLength || n > PasswordMaxLength {
		out = append(out, violation(field, fmt.Sprintf("%s must be between %d and %d characters", label(field), PasswordMinLength, PasswordMaxLength)))
	}

	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !upper {
		out = append(out, violation(field, label(field)+" must contain at least one uppercase letter"))
	}
	if !digit {
		out = append(out, violation(field, label(field)+" must contain at least one number"))
	}
	if !symbol {
		out = append(out, violation(field, label(field)+" must contain at least one special character"))
	}
	return out
}

// NewPassword checks the policy and that confirm matches.
func (v *Validator) NewPassword(password, confirm string) []apperror.Violation {
	out := v.Password("password", password)
	if password != confirm {
		out = append(out, violation("confirmPassword", "Passwords do not match"))
	}
	return out
}

func (v *Validator) Visibility(field string, vis domain.Visibility) []apperror.Violation {
	if vis.Valid() {
		return nil
	}
	return []apperror.Violation{violation(field, "Visibility must be one of: private, contacts, public")}
}

func (v *Validator) Contact(in domain.ContactInput) []apperror.Violation {
	var out []apperror.Violation
	out = append(out, v.Field("name", in.Name, "required,min=1,max=50")...)
	out = append(out, v.Field("relation", in.Relation, "required,min=1,max=30")...)
	out = append(out, v.ContactNumber("contactNumber", in.ContactNumber)...)
	if in.Email != "" {
		out = append(out, v.Field("email", in.Email, "email,max=254")...)
	}
	return out
}

// validationError wraps violations, or returns nil if there are none.
func validationError(violations []apperror.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return apperror.NewValidation("Validation failed", violations...)
}

// NormaliseEmail trims and lowercases an email address.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func describe(field string, fe validator.FieldError) string {
	l := label(field)
	switch fe.Tag() {
	case "required":
		return l + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", l, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", l, fe.Param())
	case "email":
		return l + " must be a valid email address"
	case "username":
		return l + " may only contain letters, numbers and spaces"
	case "phone":
		return l + " must be 10 to 15 digits, optionally starting with +"
	case "url":
		return l + " must be a valid URL"
	default:
		return l + " is invalid"
	}
}

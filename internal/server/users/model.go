package users

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/cryptox"
	"github.com/dmitrijs2005/userkeeper/internal/namex"
	"github.com/dmitrijs2005/userkeeper/internal/phonex"
)

// Onboarding sources recorded in User.Meta.
const (
	SourcePassword = "password"
	SourceSMS      = "sms"
	SourceCSV      = "csv"
)

// User is an identity plus credential record. Login is the normalized
// unique identifier: the lower-cased email, or the digit/plus-stripped
// phone when no email is present. Salt never changes after construction.
// AccessCode, when set, always equals the currently accepted credential
// for phone-onboarded users.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Login        string
	Email        string
	Phone        string
	Salt         string
	PasswordHash string
	AccessCode   string
	Meta         map[string]any
	CreatedAt    time.Time
}

// newUser enforces the invariants shared by all onboarding paths and
// derives the login. The credential fields are filled in by the caller.
func newUser(firstName, lastName, email, rawPhone, source string) (*User, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, fmt.Errorf("%w: first name must not be blank", common.ErrorValidation)
	}
	if strings.TrimSpace(email) == "" && strings.TrimSpace(rawPhone) == "" {
		return nil, fmt.Errorf("%w: email or phone must not be blank", common.ErrorValidation)
	}

	phone := phonex.Normalize(rawPhone)
	login := phone
	if strings.TrimSpace(email) != "" {
		login = strings.ToLower(email)
	}

	return &User{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Login:     login,
		Email:     email,
		Phone:     phone,
		Meta:      map[string]any{"source": source},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewEmailUser builds a user from the email+password onboarding path.
func NewEmailUser(firstName, lastName, email, password string) (*User, error) {
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password must not be blank", common.ErrorValidation)
	}

	user, err := newUser(firstName, lastName, email, "", SourcePassword)
	if err != nil {
		return nil, err
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("salt generation: %w", err)
	}
	user.Salt = salt
	user.PasswordHash = cryptox.HashCredential(salt, password)

	return user, nil
}

// NewPhoneUser builds a user from the phone-only onboarding path. The
// generated access code becomes the user's sole credential; the caller is
// responsible for delivering it.
func NewPhoneUser(firstName, lastName, rawPhone string) (*User, error) {
	user, err := newUser(firstName, lastName, "", rawPhone, SourceSMS)
	if err != nil {
		return nil, err
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("salt generation: %w", err)
	}
	code, err := cryptox.GenerateAccessCode()
	if err != nil {
		return nil, fmt.Errorf("access code generation: %w", err)
	}

	user.Salt = salt
	user.PasswordHash = cryptox.HashCredential(salt, code)
	user.AccessCode = code

	return user, nil
}

// NewImportedUser builds a user from a pre-hashed CSV record. The salt and
// hash are stored as given, never recomputed.
func NewImportedUser(firstName, lastName, email, salt, passwordHash, rawPhone string) (*User, error) {
	user, err := newUser(firstName, lastName, email, rawPhone, SourceCSV)
	if err != nil {
		return nil, err
	}

	user.Salt = salt
	user.PasswordHash = passwordHash

	return user, nil
}

// MakeUser splits fullName and picks the onboarding path: phone wins when
// present, then email+password; anything else is a validation error.
func MakeUser(fullName, email, password, phone string) (*User, error) {
	firstName, lastName, err := namex.Split(fullName)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(phone) != "":
		return NewPhoneUser(firstName, lastName, phone)
	case strings.TrimSpace(email) != "" && strings.TrimSpace(password) != "":
		return NewEmailUser(firstName, lastName, email, password)
	default:
		return nil, fmt.Errorf("%w: email or phone must not be blank", common.ErrorValidation)
	}
}

// FullName returns the title-cased display name.
func (u *User) FullName() string {
	return namex.FullName(u.FirstName, u.LastName)
}

// Initials returns the upper-cased first letters of the name parts.
func (u *User) Initials() string {
	return namex.Initials(u.FirstName, u.LastName)
}

// CheckPassword reports whether the candidate hashes to the stored hash
// under the stored salt.
func (u *User) CheckPassword(candidate string) bool {
	return cryptox.VerifyCredential(u.Salt, candidate, u.PasswordHash)
}

// ChangePassword replaces the credential after verifying the old one.
// When an access code is set it is mirrored to the new value, keeping the
// code==password invariant for phone-onboarded users. Nothing changes on
// failure.
func (u *User) ChangePassword(oldPass, newPass string) error {
	if !u.CheckPassword(oldPass) {
		return fmt.Errorf("%w: the entered password does not match the current password", common.ErrorInvalidCredentials)
	}
	u.PasswordHash = cryptox.HashCredential(u.Salt, newPass)
	if u.AccessCode != "" {
		u.AccessCode = newPass
	}
	return nil
}

// RotateAccessCode issues a fresh access code and makes it the current
// credential. This is the single place that maintains the code==password
// invariant during rotation.
func (u *User) RotateAccessCode() (string, error) {
	code, err := cryptox.GenerateAccessCode()
	if err != nil {
		return "", fmt.Errorf("access code generation: %w", err)
	}
	u.PasswordHash = cryptox.HashCredential(u.Salt, code)
	u.AccessCode = code
	return code, nil
}

// Info renders the user snapshot as labeled lines. It is recomputed on
// every call so credential rotations are reflected.
func (u *User) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "firstName: %s\n", u.FirstName)
	fmt.Fprintf(&b, "lastName: %s\n", u.LastName)
	fmt.Fprintf(&b, "login: %s\n", u.Login)
	fmt.Fprintf(&b, "fullName: %s\n", u.FullName())
	fmt.Fprintf(&b, "initials: %s\n", u.Initials())
	fmt.Fprintf(&b, "email: %s\n", u.Email)
	fmt.Fprintf(&b, "phone: %s\n", u.Phone)
	fmt.Fprintf(&b, "meta: %v", u.Meta)
	return b.String()
}

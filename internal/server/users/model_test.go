package users

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/cryptox"
)

func TestNewEmailUser(t *testing.T) {
	u, err := NewEmailUser("John", "Doe", "John.Doe@Example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "john.doe@example.com", u.Login)
	assert.Equal(t, "John.Doe@Example.com", u.Email)
	assert.Empty(t, u.Phone)
	assert.Empty(t, u.AccessCode)
	assert.Equal(t, SourcePassword, u.Meta["source"])
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.Salt)
	assert.True(t, u.CheckPassword("secret"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestNewEmailUser_BlankFields(t *testing.T) {
	_, err := NewEmailUser("", "Doe", "john@x.com", "secret")
	assert.True(t, errors.Is(err, common.ErrorValidation))

	_, err = NewEmailUser("John", "Doe", "john@x.com", "  ")
	assert.True(t, errors.Is(err, common.ErrorValidation))

	_, err = NewEmailUser("John", "Doe", "", "secret")
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestNewPhoneUser(t *testing.T) {
	u, err := NewPhoneUser("Иван", "Петров", "+7 (916) 123-45-67")
	require.NoError(t, err)

	assert.Equal(t, "+79161234567", u.Login)
	assert.Equal(t, "+79161234567", u.Phone)
	assert.Equal(t, SourceSMS, u.Meta["source"])
	require.Len(t, u.AccessCode, 6)

	// the access code is the password for a phone-onboarded user
	assert.True(t, u.CheckPassword(u.AccessCode))
}

func TestNewImportedUser_HashStoredAsGiven(t *testing.T) {
	salt := "abc123"
	hash := cryptox.HashCredential(salt, "imported-pass")

	u, err := NewImportedUser("John", "Doe", "john@x.com", salt, hash, "")
	require.NoError(t, err)

	assert.Equal(t, "john@x.com", u.Login)
	assert.Equal(t, salt, u.Salt)
	assert.Equal(t, hash, u.PasswordHash)
	assert.Equal(t, SourceCSV, u.Meta["source"])
	assert.Empty(t, u.AccessCode)
	assert.True(t, u.CheckPassword("imported-pass"))
}

func TestNewImportedUser_LoginFallsBackToPhone(t *testing.T) {
	u, err := NewImportedUser("John", "Doe", "", "salt", "hash", "+79161234567")
	require.NoError(t, err)
	assert.Equal(t, "+79161234567", u.Login)
}

func TestNewImportedUser_NeitherEmailNorPhone(t *testing.T) {
	_, err := NewImportedUser("John", "Doe", "", "salt", "hash", "")
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestMakeUser_PhoneTakesPriority(t *testing.T) {
	u, err := MakeUser("John Doe", "john@x.com", "secret", "+79161234567")
	require.NoError(t, err)
	assert.Equal(t, SourceSMS, u.Meta["source"])
	assert.Equal(t, "+79161234567", u.Login)
}

func TestMakeUser_EmailPath(t *testing.T) {
	u, err := MakeUser("John Doe", "john@x.com", "secret", "")
	require.NoError(t, err)
	assert.Equal(t, SourcePassword, u.Meta["source"])
	assert.Equal(t, "john@x.com", u.Login)
	assert.Equal(t, "John", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
}

func TestMakeUser_MissingCredentials(t *testing.T) {
	_, err := MakeUser("John Doe", "john@x.com", "", "")
	assert.True(t, errors.Is(err, common.ErrorValidation))

	_, err = MakeUser("John Doe", "", "secret", "")
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestMakeUser_MalformedName(t *testing.T) {
	_, err := MakeUser("А Б В", "john@x.com", "secret", "")
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestChangePassword(t *testing.T) {
	u, err := NewEmailUser("John", "Doe", "john@x.com", "old-pass")
	require.NoError(t, err)

	require.NoError(t, u.ChangePassword("old-pass", "new-pass"))
	assert.True(t, u.CheckPassword("new-pass"))
	assert.False(t, u.CheckPassword("old-pass"))
}

func TestChangePassword_WrongOldLeavesStateIntact(t *testing.T) {
	u, err := NewEmailUser("John", "Doe", "john@x.com", "real-pass")
	require.NoError(t, err)

	err = u.ChangePassword("guess", "new-pass")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorInvalidCredentials))
	assert.False(t, u.CheckPassword("new-pass"))
	assert.True(t, u.CheckPassword("real-pass"))
}

func TestChangePassword_MirrorsAccessCode(t *testing.T) {
	u, err := NewPhoneUser("John", "Doe", "+79161234567")
	require.NoError(t, err)

	code := u.AccessCode
	require.NoError(t, u.ChangePassword(code, "fresh"))
	assert.Equal(t, "fresh", u.AccessCode)
	assert.True(t, u.CheckPassword("fresh"))
}

func TestRotateAccessCode(t *testing.T) {
	u, err := NewPhoneUser("John", "Doe", "+79161234567")
	require.NoError(t, err)

	old := u.AccessCode
	code, err := u.RotateAccessCode()
	require.NoError(t, err)

	assert.Len(t, code, 6)
	assert.Equal(t, code, u.AccessCode)
	assert.True(t, u.CheckPassword(code))
	if code != old {
		assert.False(t, u.CheckPassword(old))
	}
}

func TestSaltStableAcrossCredentialChanges(t *testing.T) {
	u, err := NewPhoneUser("John", "Doe", "+79161234567")
	require.NoError(t, err)

	salt := u.Salt
	_, err = u.RotateAccessCode()
	require.NoError(t, err)
	require.NoError(t, u.ChangePassword(u.AccessCode, "newpass"))

	assert.Equal(t, salt, u.Salt)
}

func TestInfo_FieldOrder(t *testing.T) {
	u, err := NewEmailUser("ivan", "petrov", "Ivan@Example.com", "secret")
	require.NoError(t, err)

	info := u.Info()
	labels := []string{"firstName:", "lastName:", "login:", "fullName:", "initials:", "email:", "phone:", "meta:"}
	prev := -1
	for _, label := range labels {
		idx := strings.Index(info, label)
		require.GreaterOrEqual(t, idx, 0, "missing label %q", label)
		assert.Greater(t, idx, prev, "label %q out of order", label)
		prev = idx
	}

	assert.Contains(t, info, "login: ivan@example.com")
	assert.Contains(t, info, "fullName: Ivan Petrov")
	assert.Contains(t, info, "initials: I P")
	assert.Contains(t, info, "source:password")
}

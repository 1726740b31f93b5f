package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteful/api/common/apperr"
)

func registrationBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestValidateRegistration_Valid(t *testing.T) {
	body := registrationBody(t, `{"username":"alice","password":"supersecret"}`)
	assert.Nil(t, ValidateRegistration(body))

	body = registrationBody(t, `{"username":"alice","password":"supersecret","fullname":"Alice A"}`)
	assert.Nil(t, ValidateRegistration(body))
}

func TestValidateRegistration_MissingFields(t *testing.T) {
	err := ValidateRegistration(registrationBody(t, `{"password":"supersecret"}`))
	require.NotNil(t, err)
	assert.Equal(t, 422, err.Code)
	assert.Equal(t, "ValidationError", err.Reason)
	assert.Equal(t, "Missing field", err.Message)
	assert.Equal(t, "username", err.Location)

	err = ValidateRegistration(registrationBody(t, `{"username":"alice"}`))
	require.NotNil(t, err)
	assert.Equal(t, "password", err.Location)
}

func TestValidateRegistration_NonStringFields(t *testing.T) {
	err := ValidateRegistration(registrationBody(t, `{"username":42,"password":"supersecret"}`))
	require.NotNil(t, err)
	assert.Equal(t, "Incorrect field type: expected string", err.Message)
	assert.Equal(t, "username", err.Location)

	err = ValidateRegistration(registrationBody(t, `{"username":"alice","password":"supersecret","fullname":true}`))
	require.NotNil(t, err)
	assert.Equal(t, "fullname", err.Location)
}

func TestValidateRegistration_Whitespace(t *testing.T) {
	err := ValidateRegistration(registrationBody(t, `{"username":" alice","password":"supersecret"}`))
	require.NotNil(t, err)
	assert.Equal(t, "Cannot start or end with whitespace", err.Message)
	assert.Equal(t, "username", err.Location)

	err = ValidateRegistration(registrationBody(t, `{"username":"alice","password":"supersecret "}`))
	require.NotNil(t, err)
	assert.Equal(t, "password", err.Location)

	// Interior whitespace is allowed
	assert.Nil(t, ValidateRegistration(registrationBody(t, `{"username":"al ice","password":"super secret"}`)))
}

func TestValidateRegistration_Length(t *testing.T) {
	err := ValidateRegistration(registrationBody(t, `{"username":"","password":"supersecret"}`))
	require.NotNil(t, err)
	assert.Equal(t, "Must be at least 1 characters long", err.Message)
	assert.Equal(t, "username", err.Location)

	err = ValidateRegistration(registrationBody(t, `{"username":"alice","password":"short"}`))
	require.NotNil(t, err)
	assert.Equal(t, "Must be at least 8 characters long", err.Message)
	assert.Equal(t, "password", err.Location)

	long := strings.Repeat("x", 73)
	err = ValidateRegistration(registrationBody(t, `{"username":"alice","password":"`+long+`"}`))
	require.NotNil(t, err)
	assert.Equal(t, "Must be at most 72 characters long", err.Message)

	boundary := strings.Repeat("x", 72)
	assert.Nil(t, ValidateRegistration(registrationBody(t, `{"username":"alice","password":"`+boundary+`"}`)))
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(uuid.NewString()))
	assert.False(t, ValidID("not-an-id"))
	assert.False(t, ValidID(""))
}

func TestParseID(t *testing.T) {
	want := uuid.New()
	got, err := ParseID(want.String(), "The `id` is not valid")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseID("DOES-NOT-EXIST", "The `id` is not valid")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidReference, apperr.KindOf(err))
	assert.Equal(t, "The `id` is not valid", err.Error())
}

func TestParseTagIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := ParseTagIDs(json.RawMessage(`["` + a.String() + `","` + b.String() + `"]`))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	// Absent and null both mean "no tags"
	ids, err = ParseTagIDs(nil)
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = ParseTagIDs(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, ids)

	// An empty array is valid and distinct from absent
	ids, err = ParseTagIDs(json.RawMessage(`[]`))
	require.NoError(t, err)
	require.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestParseTagIDs_Invalid(t *testing.T) {
	_, err := ParseTagIDs(json.RawMessage(`"not-an-array"`))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidShape, apperr.KindOf(err))
	assert.Equal(t, "The `tags` property must be an array", err.Error())

	_, err = ParseTagIDs(json.RawMessage(`["nope"]`))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidReference, apperr.KindOf(err))
	assert.Equal(t, "Not a valid `id`", err.Error())

	_, err = ParseTagIDs(json.RawMessage(`[7]`))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidReference, apperr.KindOf(err))
}

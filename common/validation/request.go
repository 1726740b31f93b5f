// Package validation holds the structural request checks that run
// before any store access: field presence, type checks, id format,
// and credential trimming rules. Everything here is a pure function
// of the request body.
package validation

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/noteful/api/common/apperr"
)

// FieldError is the registration validation contract: a 422 response
// body identifying the offending field.
type FieldError struct {
	Code     int    `json:"code"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

func (e *FieldError) Error() string {
	return e.Message + ": " + e.Location
}

func fieldError(message, location string) *FieldError {
	return &FieldError{
		Code:     422,
		Reason:   "ValidationError",
		Message:  message,
		Location: location,
	}
}

const (
	passwordMinLength = 8
	// bcrypt truncates input beyond 72 bytes, so longer passwords are
	// rejected rather than silently weakened
	passwordMaxLength = 72
)

// ValidateRegistration checks a decoded registration body. The body
// is inspected as raw JSON so type mismatches can name the field.
func ValidateRegistration(body map[string]any) *FieldError {
	for _, field := range []string{"username", "password"} {
		if _, ok := body[field]; !ok {
			return fieldError("Missing field", field)
		}
	}

	for _, field := range []string{"username", "password", "fullname"} {
		value, ok := body[field]
		if !ok {
			continue
		}
		if _, isString := value.(string); !isString {
			return fieldError("Incorrect field type: expected string", field)
		}
	}

	// Credentials are stored and compared verbatim, so surrounding
	// whitespace would lock the user out of their own account
	for _, field := range []string{"username", "password"} {
		value := body[field].(string)
		if value != strings.TrimSpace(value) {
			return fieldError("Cannot start or end with whitespace", field)
		}
	}

	username := body["username"].(string)
	password := body["password"].(string)

	if len(username) < 1 {
		return fieldError("Must be at least 1 characters long", "username")
	}
	if len(password) < passwordMinLength {
		return fieldError("Must be at least 8 characters long", "password")
	}
	if len(password) > passwordMaxLength {
		return fieldError("Must be at most 72 characters long", "password")
	}

	return nil
}

// ValidID reports whether s is a well-formed entity id
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ParseID parses a path or reference id, failing with the given
// message when malformed
func ParseID(s, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.InvalidReference(message)
	}
	return id, nil
}

// ParseTagIDs decodes a raw `tags` value into tag ids. Absent or null
// input yields nil. Non-array input and malformed members fail with
// the caller-visible kinds.
func ParseTagIDs(raw json.RawMessage) ([]uuid.UUID, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var elems []any
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, apperr.InvalidShape("The `tags` property must be an array")
	}

	ids := make([]uuid.UUID, 0, len(elems))
	for _, elem := range elems {
		s, ok := elem.(string)
		if !ok {
			return nil, apperr.InvalidReference("Not a valid `id`")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, apperr.InvalidReference("Not a valid `id`")
		}
		ids = append(ids, id)
	}

	return ids, nil
}

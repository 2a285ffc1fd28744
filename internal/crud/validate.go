package crud

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError is a local check that failed before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator checks an entity before it is sent
type Validator[V any] func(V) error

// Required rejects blank strings
func Required[V any](field, label string, get func(V) string) Validator[V] {
	return func(v V) error {
		if strings.TrimSpace(get(v)) == "" {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", label)}
		}
		return nil
	}
}

// NonNegative rejects numbers below zero
func NonNegative[V any](field, label string, get func(V) float64) Validator[V] {
	return func(v V) error {
		if get(v) < 0 {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be 0 or more", label)}
		}
		return nil
	}
}

// Email rejects malformed addresses; blank values pass (pair with Required)
func Email[V any](field, label string, get func(V) string) Validator[V] {
	return func(v V) error {
		s := strings.TrimSpace(get(v))
		if s == "" {
			return nil
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be a valid email address", label)}
		}
		return nil
	}
}

// OneOf rejects values outside a fixed set
func OneOf[V any](field, label string, get func(V) string, allowed ...string) Validator[V] {
	return func(v V) error {
		s := get(v)
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be one of %s", label, strings.Join(allowed, ", "))}
	}
}

func validate[V any](v V, validators []Validator[V]) error {
	for _, check := range validators {
		if err := check(v); err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// EmailValidator decides whether a buyer email is acceptable. The local
// implementation checks shape only; external/abstractapi adds reputation
// checks behind the same interface.
type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

type LocalValidator struct{}

func NewLocalValidator() *LocalValidator {
	return &LocalValidator{}
}

func (v *LocalValidator) Validate(_ context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

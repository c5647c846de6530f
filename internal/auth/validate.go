// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zephyr Contributors

package auth

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

// MinPasswordLength is the minimum password length in characters. It must
// agree with the min rule on RegistrationInput.Password.
const MinPasswordLength = 8

// emailPattern matches local-part@domain.tld with an ASCII alphabet and a
// top-level domain of at least two letters.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// RegistrationInput is the structural part of a registration request.
type RegistrationInput struct {
	Identifier string `validate:"emailshape"`
	Password   string `validate:"min=8"`
	Role       Role   `validate:"oneof=reserver administrator"`
}

// Validate checks the input and reports the first failing field.
// The returned error names the field and rule, never the value.
func (in RegistrationInput) Validate() error {
	return inputError(inputValidator.Struct(in))
}

// ValidatePassword applies the registration password rule on its own.
func ValidatePassword(password string) error {
	return inputError(inputValidator.StructPartial(RegistrationInput{Password: password}, "Password"))
}

func inputError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return oops.Code("AUTH_INVALID_INPUT").
			With("field", fieldErrs[0].Field()).
			With("rule", fieldErrs[0].Tag()).
			With("failures", len(fieldErrs)).
			Errorf("registration input rejected")
	}
	return oops.Code("AUTH_INVALID_INPUT").Wrap(err)
}

// ValidateRegistration reports whether the identifier is email-shaped, the
// password has at least MinPasswordLength characters, and the role is known.
func ValidateRegistration(identifier, password string, role Role) bool {
	return RegistrationInput{Identifier: identifier, Password: password, Role: role}.Validate() == nil
}

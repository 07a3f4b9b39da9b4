package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinUsernameLen = 1
	MaxUsernameLen = 100

	MinEmailLen = 5
	MaxEmailLen = 100

	MinPasswordLen = 5
	MaxPasswordLen = 50

	MinPhoneLen = 7
	MaxPhoneLen = 16

	HashFactor = 10
)

var AllowedRoles = map[string]bool{
	"RIDER":  true,
	"DRIVER": true,
	"ADMIN":  true,
}

var (
	ErrFieldIsEmpty = errors.New("field is empty")
	ErrUnknownRole  = errors.New("unknown role")

	// ErrInvalidInput wraps every request validation failure so the
	// transport layer can tell them apart from internal errors.
	ErrInvalidInput = errors.New("invalid input")
)

func validateRegistration(username, email, phone, password, role string) error {
	if err := validateName(username); err != nil {
		return fmt.Errorf("invalid name: %v", err)
	}

	if err := validateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %v", err)
	}

	if err := validatePhone(phone); err != nil {
		return fmt.Errorf("invalid phone: %v", err)
	}

	if err := validatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %v", err)
	}

	if !AllowedRoles[role] {
		return ErrUnknownRole
	}

	return nil
}

func validateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %v", err)
	}

	if err := validatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %v", err)
	}
	return nil
}

func validateName(username string) error {
	if username == "" {
		return ErrFieldIsEmpty
	}

	usernameLen := len(username)
	if usernameLen < MinUsernameLen || usernameLen > MaxUsernameLen {
		return fmt.Errorf("must be in range [%d, %d]", MinUsernameLen, MaxUsernameLen)
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrFieldIsEmpty
	}

	emailLen := len(email)
	if emailLen < MinEmailLen || emailLen > MaxEmailLen {
		return fmt.Errorf("must be in range [%d, %d]", MinEmailLen, MaxEmailLen)
	}

	if strings.Count(email, "@") != 1 {
		return fmt.Errorf("must contain only one @: %s", email)
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return ErrFieldIsEmpty
	}

	phoneLen := len(phone)
	if phoneLen < MinPhoneLen || phoneLen > MaxPhoneLen {
		return fmt.Errorf("must be in range [%d, %d]", MinPhoneLen, MaxPhoneLen)
	}

	for i, r := range phone {
		if i == 0 && r == '+' {
			continue
		}
		if !unicode.IsDigit(r) {
			return fmt.Errorf("must contain only digits: %s", phone)
		}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrFieldIsEmpty
	}

	passwordLen := len(password)
	if passwordLen < MinPasswordLen || passwordLen > MaxPasswordLen {
		return fmt.Errorf("must be in range [%d, %d]", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func hashPassword(password string) ([]byte, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashFactor)
	return bytes, err
}

func checkPassword(hashed []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hashed, []byte(password)) == nil
}

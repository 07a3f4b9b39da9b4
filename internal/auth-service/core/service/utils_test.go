package service

import "testing"

func TestPasswordHashRoundtrip(t *testing.T) {
	hashed, err := hashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !checkPassword(hashed, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if checkPassword(hashed, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		phone    string
		password string
		role     string
		wantErr  bool
	}{
		{"valid rider", "aliya", "aliya@mail.kz", "+77011234567", "qwerty12", "RIDER", false},
		{"valid driver", "bekzat", "bekzat@mail.kz", "87011234567", "qwerty12", "DRIVER", false},
		{"empty username", "", "aliya@mail.kz", "+77011234567", "qwerty12", "RIDER", true},
		{"bad email", "aliya", "not-an-email", "+77011234567", "qwerty12", "RIDER", true},
		{"double at", "aliya", "a@@mail.kz", "+77011234567", "qwerty12", "RIDER", true},
		{"short phone", "aliya", "aliya@mail.kz", "123", "qwerty12", "RIDER", true},
		{"letters in phone", "aliya", "aliya@mail.kz", "+7701abc4567", "qwerty12", "RIDER", true},
		{"short password", "aliya", "aliya@mail.kz", "+77011234567", "abc", "RIDER", true},
		{"unknown role", "aliya", "aliya@mail.kz", "+77011234567", "qwerty12", "PASSENGER", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateRegistration(tc.username, tc.email, tc.phone, tc.password, tc.role)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	if err := validatePhone("+77011234567"); err != nil {
		t.Errorf("leading plus must be allowed: %v", err)
	}
	if err := validatePhone("7701123+4567"); err == nil {
		t.Error("plus is only allowed as the first character")
	}
}

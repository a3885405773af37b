package controllers

import (
	"errors"
	"testing"
)

func TestDuplicateKeyMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"duplicate bureau state",
			errors.New(`E11000 duplicate key error collection: scholarship.accounts index: sag.state_1 dup key`),
			"SAG bureau already exists for this state",
		},
		{
			"duplicate registration number",
			errors.New(`E11000 duplicate key error collection: scholarship.accounts index: student.registration_number_1 dup key`),
			"registration number already exists",
		},
		{
			"duplicate department code",
			errors.New(`E11000 duplicate key error collection: scholarship.accounts index: finance.department_code_1 dup key`),
			"department code already exists",
		},
		{
			"duplicate role+email",
			errors.New(`E11000 duplicate key error collection: scholarship.accounts index: role_1_email_1 dup key`),
			"email already registered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := duplicateKeyMessage(tt.err); got != tt.want {
				t.Errorf("duplicateKeyMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

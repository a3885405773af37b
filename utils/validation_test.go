package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestBindingErrors_FlattensAllViolations(t *testing.T) {
	type register struct {
		Name     string `validate:"required"`
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}

	v := validator.New()
	err := v.Struct(register{Email: "not-an-email", Password: "abc"})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	msgs := BindingErrors(err)
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3: %v", len(msgs), msgs)
	}

	joined := strings.Join(msgs, "; ")
	for _, want := range []string{
		"please add a name",
		"please add a valid email",
		"password must be at least 6 characters",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("messages %v missing %q", msgs, want)
		}
	}
}

func TestBindingErrors_NonValidatorError(t *testing.T) {
	msgs := BindingErrors(errors.New("unexpected EOF"))
	if len(msgs) != 1 || msgs[0] != "unexpected EOF" {
		t.Errorf("got %v, want the error string passed through", msgs)
	}
}

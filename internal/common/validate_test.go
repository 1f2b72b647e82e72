package common

import (
	"errors"
	"net/http"
	"testing"
)

func TestValidateStructPasses(t *testing.T) {
	payload := struct {
		Email string `validate:"required,email"`
	}{Email: "parent@example.com"}

	if err := ValidateStruct(payload); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateStructReportsFields(t *testing.T) {
	payload := struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}{Email: "not-an-email", Password: "short"}

	err := ValidateStruct(payload)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code: %s", appErr.Code)
	}
	if appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", appErr.HTTPStatus)
	}
	details, ok := appErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type: %T", appErr.Details)
	}
	if details["email"] != "email" {
		t.Fatalf("expected email violation, got %#v", details)
	}
	if details["password"] != "min" {
		t.Fatalf("expected password violation, got %#v", details)
	}
}

package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "root not found")
		if err.Error() != "[NOT_FOUND] root not found" {
			t.Errorf("expected [NOT_FOUND] root not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		err := Wrap(os.ErrPermission, CodeIO, "read unit")
		expected := "[IO_ERROR] read unit: permission denied"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, os.ErrPermission) {
			t.Error("expected wrapped error to unwrap to os.ErrPermission")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid output mode")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("AddContextOnDomainError", func(t *testing.T) {
		err := AddContext(Wrap(os.ErrNotExist, CodeIO, "read unit"), CtxPath, "a/B.smali")
		if !IsCode(err, CodeIO) {
			t.Fatalf("expected code to survive AddContext, got %v", err)
		}
		if !strings.Contains(err.Error(), "a/B.smali") {
			t.Errorf("expected path in message, got %s", err.Error())
		}
	})

	t.Run("AddContextOnPlainError", func(t *testing.T) {
		err := AddContext(fmt.Errorf("boom"), CtxOperation, "render")
		if CodeOf(err) != CodeInternal {
			t.Errorf("expected plain error to become internal, got %s", CodeOf(err))
		}
	})
}

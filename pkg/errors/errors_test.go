package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

var errSeatMissing = errors.New("seat not found")

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation is a bad request", Validation("Booking validation failed", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("invalid offset parameter: -1"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NotFoundWithID("Seat", "65f0000000000000000000aa"), CodeNotFound, http.StatusNotFound},
		{"unauthorized token", Unauthorized("Invalid refresh token"), CodeUnauthorized, http.StatusUnauthorized},
		{"booking overlap", Conflict("Booking overlaps with existing booking"), CodeConflict, http.StatusConflict},
		{"internal", Internal("Failed to create booking", errSeatMissing), CodeInternal, http.StatusInternalServerError},
		{"store timeout", Timeout("Failed to list seats"), CodeTimeout, http.StatusServiceUnavailable},
		{"redis down", Unavailable("Idempotency store"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestValidation_KeepsOwnCodeAtSameStatusAsInvalidInput(t *testing.T) {
	v := Validation("A new booking cannot be cancelled", map[string]any{"status": "cancelled"})
	in := InvalidInput("invalid limit parameter: x")

	if v.StatusCode() != in.StatusCode() {
		t.Errorf("validation status %d differs from invalid input %d", v.StatusCode(), in.StatusCode())
	}
	if v.Code == in.Code {
		t.Error("validation and invalid input share a code")
	}
	if v.Details["status"] != "cancelled" {
		t.Errorf("details = %v", v.Details)
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "65f0000000000000000000b1")

	if err.Message != "Booking not found" {
		t.Errorf("message = %q", err.Message)
	}
	if err.Details["resource"] != "Booking" || err.Details["id"] != "65f0000000000000000000b1" {
		t.Errorf("details = %v", err.Details)
	}
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	conflict := Conflict("Seat is under maintenance")
	inTx := fmt.Errorf("transaction aborted: %w", conflict)
	twice := fmt.Errorf("create booking: %w", inTx)

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"direct", conflict, CodeConflict, true},
		{"wrapped once", inTx, CodeConflict, true},
		{"wrapped twice", twice, CodeConflict, true},
		{"other code", twice, CodeNotFound, false},
		{"plain error", errSeatMissing, CodeConflict, false},
		{"nil", nil, CodeConflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestIsAppError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("lease: %w", Timeout("Failed to acquire lease"))

	if !IsAppError(wrapped) {
		t.Error("wrapped AppError not detected")
	}
	if IsAppError(context.DeadlineExceeded) {
		t.Error("context error reported as AppError")
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("unwraps to the original", func(t *testing.T) {
		original := Unauthorized("Refresh token expired")
		got := AsAppError(fmt.Errorf("validate: %w", original))
		if got != original {
			t.Errorf("got %v, want the wrapped AppError", got)
		}
	})

	t.Run("plain errors become internal and keep their cause", func(t *testing.T) {
		got := AsAppError(errSeatMissing)
		if got.Code != CodeInternal || got.StatusCode() != http.StatusInternalServerError {
			t.Errorf("got %s/%d", got.Code, got.StatusCode())
		}
		if !errors.Is(got, errSeatMissing) {
			t.Error("cause lost")
		}
	})
}

func TestUnwrap_ExposesSentinel(t *testing.T) {
	repoErr := fmt.Errorf("find seat: %w", errSeatMissing)
	err := Internal("Failed to update booking", repoErr)

	if !errors.Is(err, errSeatMissing) {
		t.Error("errors.Is did not reach the sentinel")
	}
	if errors.Unwrap(err) != repoErr {
		t.Error("Unwrap did not return the direct cause")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"without cause", Conflict("Seat number A1 already exists"), "CONFLICT: Seat number A1 already exists"},
		{
			name: "with cause",
			err:  Wrap(context.DeadlineExceeded, CodeTimeout, "Failed to list bookings", http.StatusServiceUnavailable),
			want: "TIMEOUT: Failed to list bookings (caused by: context deadline exceeded)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithDetails_Replaces(t *testing.T) {
	err := NotFoundWithID("Seat", "x").WithDetails(map[string]any{"seat_id": "y"})

	if _, ok := err.Details["resource"]; ok {
		t.Error("old details kept")
	}
	if err.Details["seat_id"] != "y" {
		t.Errorf("details = %v", err.Details)
	}
}

func TestNew(t *testing.T) {
	err := New(CodeConflict, "Refresh token collision, retry the request", http.StatusConflict)
	if err.Code != CodeConflict || err.StatusCode() != http.StatusConflict || err.Err != nil {
		t.Errorf("New() = %+v", err)
	}
}

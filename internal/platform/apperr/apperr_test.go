package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(NotFound("schedule", "schedule missing")) != KindNotFound {
		t.Error("expected KindNotFound")
	}
	if KindOf(BadRequest("bad time")) != KindBadRequest {
		t.Error("expected KindBadRequest")
	}
	if KindOf(Conflict("medication", "duplicate")) != KindConflict {
		t.Error("expected KindConflict")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("expected KindInternal for untyped error")
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("edit workflow: %w", NotFound("patient", "patient missing"))
	if !IsNotFound(err) {
		t.Error("expected wrapped error to keep its kind")
	}
	if EntityOf(err) != "patient" {
		t.Errorf("expected entity 'patient', got %q", EntityOf(err))
	}
}

func TestEntityOf_DistinguishesLookups(t *testing.T) {
	schedErr := NotFound("schedule", "schedule missing")
	patErr := NotFound("patient", "patient missing")
	if EntityOf(schedErr) == EntityOf(patErr) {
		t.Error("expected schedule and patient lookups to stay distinguishable")
	}
}

func TestInternal_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "save medication")
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("schedule", "x"), http.StatusNotFound},
		{BadRequest("x"), http.StatusBadRequest},
		{Conflict("medication", "x"), http.StatusConflict},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHTTP_HidesInternalDetail(t *testing.T) {
	he := HTTP(Internal(errors.New("password=hunter2"), "connect"))
	if he.Message != "internal server error" {
		t.Errorf("internal cause leaked to client: %v", he.Message)
	}
}

package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validationf("quantity must be positive"), Validation},
		{"not found", NotFoundf("brand %d not found", 7), NotFound},
		{"insufficient", InsufficientStockf("insufficient stock"), InsufficientStock},
		{"conflict", Conflictf("duplicate name"), Conflict},
		{"persistence", Wrap("save", errors.New("io error")), Persistence},
		{"foreign error", errors.New("plain"), Unknown},
		{"nil", nil, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", InsufficientStockf("insufficient stock"))
	if KindOf(err) != InsufficientStock {
		t.Fatalf("expected InsufficientStock through wrap, got %v", KindOf(err))
	}
}

func TestPersistenceUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap("lookup stock product", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be matchable")
	}
	if err.Error() != "lookup stock product: connection reset" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestIsMatchesByKind(t *testing.T) {
	if !errors.Is(NotFoundf("a"), NotFoundf("b")) {
		t.Fatal("same-kind errors should match")
	}
	if errors.Is(NotFoundf("a"), Conflictf("b")) {
		t.Fatal("different-kind errors should not match")
	}
}

package authz

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	// Arrange
	e, err := New([]string{"42", " 7 "})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		sub  string
		obj  string
		act  string
		want bool
	}{
		{name: "admin reads users", sub: "42", obj: ObjectUsers, act: ActRead, want: true},
		{name: "admin deletes users", sub: "7", obj: ObjectUsers, act: ActDelete, want: true},
		{name: "plain user is denied", sub: "9", obj: ObjectUsers, act: ActWrite, want: false},
		{name: "admin outside the users object", sub: "42", obj: "billing", act: ActRead, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, err := e.Enforce(tt.sub, tt.obj, tt.act)

			// Assert
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Enforce(%q, %q, %q) = %v, want %v", tt.sub, tt.obj, tt.act, got, tt.want)
			}
		})
	}
}

func TestNew_NoAdmins(t *testing.T) {
	// Arrange
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Act
	got, err := e.Enforce("1", ObjectUsers, ActRead)

	// Assert
	if err != nil || got {
		t.Fatalf("Enforce() = %v, %v; want false, nil", got, err)
	}
}

func TestNew_EmptySubject(t *testing.T) {
	// Act
	_, err := New([]string{"1", "  "})

	// Assert
	if !errors.Is(err, ErrEmptySubject) {
		t.Fatalf("New() error = %v, want %v", err, ErrEmptySubject)
	}
}

package storage

import (
	"errors"
	"fmt"
	"testing"
)

func TestStorageError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *StorageError
		expected string
	}{
		{
			name:     "node with id",
			err:      NewError("UpdateNode").Node("coe_x").Cause(ErrNodeNotFound).Build(),
			expected: "UpdateNode node coe_x: node not found",
		},
		{
			name:     "node with field",
			err:      NewError("UpdateNode").Node("coe_x").Field("order").Cause(ErrMarshalFailed).Build(),
			expected: "UpdateNode node coe_x (field order): marshal failed",
		},
		{
			name:     "snapshot with context",
			err:      NewError("ImportSnapshot").Snapshot().Context("line 3").Cause(ErrInvalidSnapshot).Build(),
			expected: "ImportSnapshot snapshot (line 3): invalid snapshot",
		},
		{
			name:     "bare",
			err:      NewError("AddNode").Cause(ErrUnknownType).Build(),
			expected: "AddNode : unknown entity type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	err := NodeNotFoundError("UpdateNode", "missing")
	if !errors.Is(err, ErrNodeNotFound) {
		t.Error("errors.Is should find ErrNodeNotFound")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should be true")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	var se *StorageError
	if !errors.As(wrapped, &se) {
		t.Fatal("errors.As should find StorageError")
	}
	if se.ID != "missing" {
		t.Errorf("ID = %q, want missing", se.ID)
	}

	if IsNotFound(SnapshotError("ImportSnapshot", ErrInvalidSnapshot)) {
		t.Error("snapshot error is not a not-found error")
	}
}

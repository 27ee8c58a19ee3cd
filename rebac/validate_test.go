package rebac

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		relation string
		object   string
		wantErr  bool
	}{
		{"valid", "user:1", "owner", "doc:42", false},
		{"valid uppercase relation", "user:1", "canView", "doc:42", false},
		{"id with extra colons", "user:a:b", "owner", "doc:c:d", false},
		{"subject without colon", "user1", "owner", "doc:42", true},
		{"object without colon", "user:1", "owner", "doc42", true},
		{"empty relation", "user:1", "", "doc:42", true},
		{"relation with digit", "user:1", "owner2", "doc:42", true},
		{"relation with symbol", "user:1", "own-er", "doc:42", true},
		{"subject equals object", "doc:42", "owner", "doc:42", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.subject, tt.relation, tt.object)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q, %q, %q) error = %v, wantErr %v",
					tt.subject, tt.relation, tt.object, err, tt.wantErr)
			}
		})
	}
}

func TestValidateReturnsValidationError(t *testing.T) {
	err := Validate("user1", "owner", "doc:42")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != "subject" {
		t.Errorf("Field = %q, want %q", verr.Field, "subject")
	}
}

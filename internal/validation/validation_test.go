package validation

import (
	"strings"
	"testing"
)

func TestValidationErrors(t *testing.T) {
	ve := &ValidationErrors{}
	if ve.HasErrors() {
		t.Error("new ValidationErrors should have no errors")
	}

	RequireField(ve, "description", "  ")
	ValidateEnum(ve, "category", "drawers", []string{"doors", "glass"})
	ValidatePositiveInt(ve, "quantity", 0)
	ValidateNonNegativeInt(ve, "quantity_received", -1)

	if len(ve.Errors) != 4 {
		t.Fatalf("errors = %d, want 4", len(ve.Errors))
	}
	msg := ve.Error()
	for _, want := range []string{"description", "category", "quantity", "quantity_received"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q: %s", want, msg)
		}
	}
}

func TestValidationPasses(t *testing.T) {
	ve := &ValidationErrors{}
	RequireField(ve, "description", "Shaker door")
	ValidateEnum(ve, "category", "doors", []string{"doors", "glass"})
	ValidateEnum(ve, "category", "", []string{"doors", "glass"}) // empty is skipped
	ValidatePositiveInt(ve, "quantity", 3)
	ValidateNonNegativeInt(ve, "quantity_received", 0)

	if ve.HasErrors() {
		t.Errorf("unexpected errors: %s", ve.Error())
	}
}

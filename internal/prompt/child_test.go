package prompt

import (
	"strings"
	"testing"
)

func TestChildInstructionBranches(t *testing.T) {
	one := ChildInstruction(1, "")
	two := ChildInstruction(2, "")

	if one == two {
		t.Fatal("single-image and two-parent instructions must differ")
	}
	if !strings.Contains(one, "in the provided image.") {
		t.Fatalf("single-image wording missing: %s", one)
	}
	if !strings.Contains(two, "two parents in the provided images") {
		t.Fatalf("two-parent wording missing: %s", two)
	}
	for _, got := range []string{one, two} {
		if !strings.Contains(got, "7-year-old") {
			t.Fatalf("template missing age: %s", got)
		}
		if strings.Contains(got, "Additional details") {
			t.Fatalf("details suffix must be omitted without details: %s", got)
		}
	}
}

func TestChildInstructionDetails(t *testing.T) {
	tests := []struct {
		details string
		want    string
	}{
		{details: "curly hair", want: "Additional details: curly hair"},
		{details: "  wearing a <red> hat  ", want: "Additional details: wearing a <red> hat"},
	}
	for _, tc := range tests {
		got := ChildInstruction(1, tc.details)
		if !strings.HasSuffix(got, tc.want) {
			t.Fatalf("instruction %q does not end with %q", got, tc.want)
		}
	}

	if got := ChildInstruction(2, "   "); strings.Contains(got, "Additional details") {
		t.Fatalf("blank details must be ignored: %s", got)
	}
}

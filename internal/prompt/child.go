package prompt

import "strings"

// DefaultChildPrompt is echoed back when the caller sent no extra details.
const DefaultChildPrompt = "Generated 7-year-old child from parent photos"

const (
	singleImageLead = "Generate an image of what a 7-year-old child would look like based on the facial features and characteristics of the parent(s) in the provided image. The image may show one parent or both parents together; the child should have a natural blend of the features of everyone shown,"
	twoParentLead   = "Generate an image of what a 7-year-old child would look like based on the facial features and characteristics of the two parents in the provided images. The first image shows one parent and the second image shows the other; the child should have a natural blend of features from both parents,"
	childTail       = "with age-appropriate characteristics of a happy, healthy 7-year-old."
)

// ChildInstruction composes the instruction for the parent-to-child flow.
// parentImages selects the single-image or two-parent wording; details is
// appended verbatim as "Additional details: ..." when non-blank.
func ChildInstruction(parentImages int, details string) string {
	lead := singleImageLead
	if parentImages >= 2 {
		lead = twoParentLead
	}
	parts := []string{lead, childTail}
	if d := strings.TrimSpace(details); d != "" {
		parts = append(parts, "Additional details: "+d)
	}
	return strings.Join(parts, " ")
}

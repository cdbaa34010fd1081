package extract

import (
	"regexp"
	"strings"
)

const maxTopicNameLen = 200

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|` +
		`new\s+instructions)`,
)

// ValidateTopic checks a decoded topic and trims its text fields in place.
// Returns true if the topic should be kept. Instruction-like phrasing is only
// rejected in Details: names such as "System Prompt Design" are real syllabus
// topics.
func ValidateTopic(t *Topic) bool {
	if t == nil {
		return false
	}
	t.Name = strings.TrimSpace(t.Name)
	t.Details = strings.TrimSpace(t.Details)
	if t.Name == "" || len(t.Name) > maxTopicNameLen {
		return false
	}
	if injectionPattern.MatchString(t.Details) {
		return false
	}
	if t.Importance < 0 || t.Importance > 100 {
		return false
	}
	return true
}

// TopicKey is the merge key for a topic name: case-folded with whitespace
// runs collapsed.
func TopicKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

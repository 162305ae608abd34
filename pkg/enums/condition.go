package enums

import "fmt"

// Condition grades the wear state of a secondhand garment.
type Condition string

const (
	ConditionNewWithTags Condition = "new_with_tags"
	ConditionExcellent   Condition = "excellent"
	ConditionVeryGood    Condition = "very_good"
	ConditionGood        Condition = "good"
	ConditionWorn        Condition = "worn"
)

var validConditions = []Condition{
	ConditionNewWithTags,
	ConditionExcellent,
	ConditionVeryGood,
	ConditionGood,
	ConditionWorn,
}

// String implements fmt.Stringer.
func (c Condition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Condition.
func (c Condition) IsValid() bool {
	for _, candidate := range validConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCondition converts raw input into a Condition.
func ParseCondition(value string) (Condition, error) {
	for _, candidate := range validConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition %q", value)
}

package enums

import "fmt"

// Sex tags which department a listing is merchandised under.
type Sex string

const (
	SexWomen  Sex = "women"
	SexMen    Sex = "men"
	SexUnisex Sex = "unisex"
)

var validSexes = []Sex{
	SexWomen,
	SexMen,
	SexUnisex,
}

// String implements fmt.Stringer.
func (s Sex) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Sex.
func (s Sex) IsValid() bool {
	for _, candidate := range validSexes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSex converts raw input into a Sex.
func ParseSex(value string) (Sex, error) {
	for _, candidate := range validSexes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sex %q", value)
}

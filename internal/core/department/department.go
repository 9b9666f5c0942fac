package department

import "strings"

// Department is the organisational unit a user signs up under.
type Department string

const (
	HR      Department = "HR"
	Tech    Department = "Tech"
	Finance Department = "Finance"
	IT      Department = "IT"
)

// All lists every department in display order.
var All = []Department{HR, Tech, Finance, IT}

// TeamTargets are the departments an HR team can hold members of.
var TeamTargets = []Department{Tech, IT, Finance}

// Parse matches s against the known departments case-insensitively and
// returns the canonical spelling.
func Parse(s string) (Department, bool) {
	s = strings.TrimSpace(s)
	for _, d := range All {
		if strings.EqualFold(string(d), s) {
			return d, true
		}
	}
	return "", false
}

func (d Department) IsValid() bool {
	for _, known := range All {
		if known == d {
			return true
		}
	}
	return false
}

func (d Department) IsTeamTarget() bool {
	for _, t := range TeamTargets {
		if t == d {
			return true
		}
	}
	return false
}

func (d Department) String() string {
	return string(d)
}

// Strings returns the departments as plain strings, for validation messages.
func Strings(ds []Department) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = string(d)
	}
	return out
}

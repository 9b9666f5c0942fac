package routing

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/deptdesk/internal/core/department"
	"github.com/frahmantamala/deptdesk/internal/issue"
	"github.com/frahmantamala/deptdesk/internal/user"
)

// CategoryTable maps issue categories to the department that handles them.
// Lookup is total: unmapped categories go to the fallback department.
type CategoryTable struct {
	routes   map[issue.Category]department.Department
	fallback department.Department
}

// DefaultCategoryTable is the stock mapping used when no overrides are
// configured.
func DefaultCategoryTable() CategoryTable {
	return CategoryTable{
		routes: map[issue.Category]department.Department{
			issue.CategoryHardware: department.IT,
			issue.CategorySoftware: department.IT,
			issue.CategoryNetwork:  department.IT,
			issue.CategorySalary:   department.Finance,
			issue.CategoryBenefits: department.Finance,
			issue.CategoryPolicy:   department.HR,
			issue.CategoryTraining: department.HR,
		},
		fallback: department.Tech,
	}
}

// NewCategoryTable starts from the default mapping and applies overrides.
// An empty fallback keeps the default one.
func NewCategoryTable(overrides map[string]string, fallback string) (CategoryTable, error) {
	table := DefaultCategoryTable()
	if fallback != "" {
		d, ok := department.Parse(fallback)
		if !ok {
			return CategoryTable{}, fmt.Errorf("unknown fallback department %q", fallback)
		}
		table.fallback = d
	}
	for category, dept := range overrides {
		d, ok := department.Parse(dept)
		if !ok {
			return CategoryTable{}, fmt.Errorf("category %q maps to unknown department %q", category, dept)
		}
		table.routes[issue.Category(strings.ToLower(strings.TrimSpace(category)))] = d
	}
	return table, nil
}

func (t CategoryTable) Lookup(category issue.Category) department.Department {
	if d, ok := t.routes[category]; ok {
		return d
	}
	return t.fallback
}

// AssigneePicker chooses who receives an issue among the users of the
// target department, or returns nil when nobody is available.
type AssigneePicker func(candidates []*user.User) *user.User

// FirstAvailable picks the longest-standing member of the department.
func FirstAvailable(candidates []*user.User) *user.User {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

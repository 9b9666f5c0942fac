package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/deptdesk/internal/core/datamodel/category"
)

// DefaultCategory is the category assigned to expenses submitted without one.
const DefaultCategory = "office-supplies"

// Defaults is the catalogue seeded into a fresh database.
var Defaults = []struct {
	Name        string
	Description string
}{
	{"office-supplies", "Stationery and other office consumables"},
	{"travel", "Business travel and accommodation"},
	{"equipment", "Furniture and durable equipment"},
	{"software", "Licences and subscriptions"},
	{"marketing", "Campaigns, events and promotional material"},
	{"hardware", "Computers, peripherals and spare parts"},
	{"maintenance", "Repairs and facility upkeep"},
	{"training", "Courses, certifications and books"},
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:        c.Name,
		Description: c.Description,
		IsDefault:   c.Name == DefaultCategory,
	}
}

func (c *Category) Activate(at time.Time) {
	c.IsActive = true
	c.UpdatedAt = at
}

func (c *Category) Deactivate(at time.Time) {
	c.IsActive = false
	c.UpdatedAt = at
}

func NewCategory(name, description string, at time.Time) *Category {
	return &Category{
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.ExpenseCategory {
	return &categoryDatamodel.ExpenseCategory{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.ExpenseCategory) *Category {
	return &Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

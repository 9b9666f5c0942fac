package category

// CategoryResponse is the public catalogue entry. IsDefault marks the
// category applied when an expense is submitted without one.
type CategoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

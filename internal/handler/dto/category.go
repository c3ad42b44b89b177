package dto

import "github.com/vinped/vinped/internal/model"

// CategoryResponse is the outward representation of a category.
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
	IsDefault bool   `json:"is_default"`
}

// CategoryListResponse wraps the list of categories visible to a user.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryListResponse converts category models to the list shape.
func ToCategoryListResponse(categories []*model.Category) CategoryListResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			ID:        c.ID,
			Name:      c.Name,
			Icon:      c.Icon,
			Color:     c.Color,
			IsDefault: c.IsDefault,
		})
	}
	return CategoryListResponse{Categories: out}
}

package domain

// Category classifies download items. Items can belong to multiple
// categories via the item_categories junction.
type Category struct {
	Record
	Name string `json:"name"` // Display name: "Productivity Apps"
	Slug string `json:"slug"` // URL-safe key: "productivity-apps"
	Icon string `json:"icon,omitempty"`
}

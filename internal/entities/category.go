package entities

// Category is a catalog drink category. The name is both the label and the filter key.
type Category struct {
	Name string `json:"strCategory"`
}

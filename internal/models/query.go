package models

// PredefinedQuery is one entry of the canned query menu.
type PredefinedQuery struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	SQL         string         `yaml:"query" json:"query"`
	Parameters  map[string]any `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

package category

import (
	"errors"
)

// FallbackCode is the category assigned when no alias matches.
const FallbackCode = "OTHER"

var (
	ErrNotFound  = errors.New("category not found")
	ErrDuplicate = errors.New("category already exists")
	ErrInvalid   = errors.New("invalid category")
)

// Category is a spending class. Aliases are case-insensitive patterns tried
// against the start of a description, in order.
type Category struct {
	Code       string
	Name       string
	Icon       string
	Aliases    []string
	Proportion float64
}

func (c *Category) IsFallback() bool {
	return c.Code == FallbackCode
}

func (c *Category) AddAlias(alias string) {
	c.Aliases = append(c.Aliases, alias)
}

// Matches reports whether any alias matches the beginning of description.
func (c *Category) Matches(description string) bool {
	for _, alias := range c.Aliases {
		if matchAlias(alias, description) {
			return true
		}
	}

	return false
}

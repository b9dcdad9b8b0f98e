package domain

import "time"

// Author is a catalog contributor. A book references at most one author;
// an author owns zero or more books (tracked on the Book side by AuthorID).
type Author struct {
	Base
	Name        string `json:"name"`
	Biography   string `json:"biography,omitempty"`
	Email       string `json:"email,omitempty"`
	BirthYear   int    `json:"birth_year,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// Age returns the author's age in whole years as of now, or 0 when the
// birth year is unknown. Precision is the calendar year.
func (a *Author) Age(now time.Time) int {
	if a.BirthYear == 0 {
		return 0
	}
	return now.UTC().Year() - a.BirthYear
}

// SameAs reports natural-key equality: authors are identified by name.
func (a *Author) SameAs(other *Author) bool {
	if other == nil {
		return false
	}
	return a.Name != "" && a.Name == other.Name
}

// Category groups books thematically. The relationship to Book is
// many-to-many, unordered, and duplicate-free (tracked on the Book side).
type Category struct {
	Base
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// SameAs reports natural-key equality: categories are identified by name.
func (c *Category) SameAs(other *Category) bool {
	if other == nil {
		return false
	}
	return c.Name != "" && c.Name == other.Name
}

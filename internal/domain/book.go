package domain

import (
	"slices"
	"strings"
	"time"
)

// oldBookAgeYears is the age past which a title counts as "old".
const oldBookAgeYears = 10

// Book represents a title in the catalog. Each Book tracks a single physical
// copy via its Status field; loan and reservation history reference the Book
// by ID and are owned by their respective ledgers.
type Book struct {
	Base
	Title           string     `json:"title"`
	ISBN            string     `json:"isbn"`
	Description     string     `json:"description,omitempty"`
	PageCount       int        `json:"page_count,omitempty"`
	PublicationYear int        `json:"publication_year,omitempty"` // 0 when unknown
	Publisher       string     `json:"publisher,omitempty"`
	Language        string     `json:"language,omitempty"`
	Price           float64    `json:"price,omitempty"`
	Status          BookStatus `json:"status"`
	Location        string     `json:"location,omitempty"`
	CoverURL        string     `json:"cover_url,omitempty"`
	AuthorID        string     `json:"author_id,omitempty"`
	CategoryIDs     []string   `json:"category_ids,omitempty"`
}

// SameAs reports natural-key equality: two books are the same title when
// their ISBNs match.
func (b *Book) SameAs(other *Book) bool {
	if other == nil {
		return false
	}
	return b.ISBN != "" && b.ISBN == other.ISBN
}

// Age returns the book's age in years as of now. Unknown publication years
// yield 0.
func (b *Book) Age(now time.Time) int {
	if b.PublicationYear == 0 {
		return 0
	}
	return now.UTC().Year() - b.PublicationYear
}

// IsOld reports whether the book was published more than ten years before now.
func (b *Book) IsOld(now time.Time) bool {
	return b.PublicationYear != 0 && b.Age(now) > oldBookAgeYears
}

// IsAvailableForBorrow reports whether this copy can be lent out right now.
func (b *Book) IsAvailableForBorrow() bool {
	return b.Status.IsAvailableForBorrow()
}

// IsAvailableForReservation reports whether this copy can be reserved.
func (b *Book) IsAvailableForReservation() bool {
	return b.Status.IsAvailableForReservation()
}

// HasCategory reports whether the book carries the given category.
func (b *Book) HasCategory(categoryID string) bool {
	return slices.Contains(b.CategoryIDs, categoryID)
}

// AddCategory attaches a category. The category set is unordered and free of
// duplicates; adding an already-present category is a no-op.
func (b *Book) AddCategory(categoryID string) {
	if categoryID == "" || b.HasCategory(categoryID) {
		return
	}
	b.CategoryIDs = append(b.CategoryIDs, categoryID)
	b.Touch()
}

// RemoveCategory detaches a category. Removing an absent category is a no-op.
func (b *Book) RemoveCategory(categoryID string) {
	idx := slices.Index(b.CategoryIDs, categoryID)
	if idx < 0 {
		return
	}
	b.CategoryIDs = slices.Delete(b.CategoryIDs, idx, idx+1)
	b.Touch()
}

// TitleContains reports a case-insensitive substring match on the title.
func (b *Book) TitleContains(fragment string) bool {
	return strings.Contains(strings.ToLower(b.Title), strings.ToLower(fragment))
}

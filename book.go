package catalog

import (
	"github.com/samber/lo"
)

// Book is a catalog entry. Physical copies are BookInstances.
type Book struct {
	ID         int64
	Title      string `validate:"required,max=200"`
	AuthorID   *int64
	Summary    string `validate:"required,max=1000"`
	ISBN       string `validate:"required,max=13"`
	LanguageID *int64

	Author    *Author        `validate:"-"`
	Language  *Language      `validate:"-"`
	Genres    []Genre        `validate:"-"`
	Instances []BookInstance `validate:"-"`
}

func (b Book) String() string {
	return b.Title
}

// URL is the address of the book's detail page.
func (b Book) URL() string {
	return MustReverse("book-detail", b.ID)
}

// GenreIDs returns the distinct keys of b.Genres.
func (b Book) GenreIDs() []int64 {
	return lo.Uniq(lo.Map(b.Genres, func(g Genre, _ int) int64 { return g.ID }))
}

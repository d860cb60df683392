package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookInstance is one copy of a book that can be borrowed.
type BookInstance struct {
	ID      uuid.UUID
	BookID  *int64
	Imprint string     `validate:"required,max=200"`
	DueBack *time.Time `validate:"-"`
	Status  LoanStatus `validate:"loanstatus"`

	Book *Book `validate:"-"`
}

// String renders the copy's id followed by its book's title when the book
// is loaded.
func (bi BookInstance) String() string {
	if bi.Book == nil {
		return bi.ID.String()
	}
	return fmt.Sprintf("%s (%s)", bi.ID, bi.Book.Title)
}

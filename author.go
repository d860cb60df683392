package catalog

import (
	"fmt"
	"time"
)

type Author struct {
	ID          int64
	FirstName   string     `validate:"required,max=100"`
	LastName    string     `validate:"required,max=100"`
	DateOfBirth *time.Time `validate:"-"`
	DateOfDeath *time.Time `validate:"-"`

	Books []Book `validate:"-"`
}

// String renders "last, first".
func (a Author) String() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

// URL is the address of the author's detail page.
func (a Author) URL() string {
	return MustReverse("author-detail", a.ID)
}

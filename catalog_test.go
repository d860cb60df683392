package catalog_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/catalog"
)

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRendering(t *testing.T) {
	assert.Equal(t, "Science Fiction", catalog.Genre{Name: "Science Fiction"}.String())
	assert.Equal(t, "French", catalog.Language{Name: "French"}.String())
	assert.Equal(t, "Smith, John", catalog.Author{FirstName: "John", LastName: "Smith"}.String())
	assert.Equal(t, "Dune", catalog.Book{Title: "Dune"}.String())

	id := uuid.MustParse("6f1c2a3e-8a43-4d7e-9d5b-1f4b8c7a2e10")
	t.Run("instance with book", func(t *testing.T) {
		bi := catalog.BookInstance{ID: id, Book: &catalog.Book{Title: "Dune"}}
		assert.Equal(t, "6f1c2a3e-8a43-4d7e-9d5b-1f4b8c7a2e10 (Dune)", bi.String())
	})

	t.Run("instance without book", func(t *testing.T) {
		bi := catalog.BookInstance{ID: id}
		assert.Equal(t, "6f1c2a3e-8a43-4d7e-9d5b-1f4b8c7a2e10", bi.String())
	})
}

func TestDetailURLs(t *testing.T) {
	assert.Equal(t, "/catalog/book/42", catalog.Book{ID: 42}.URL())
	assert.Equal(t, "/catalog/author/7", catalog.Author{ID: 7}.URL())
}

func TestReverse(t *testing.T) {
	path, err := catalog.Reverse("books")
	require.NoError(t, err)
	assert.Equal(t, "/catalog/books/", path)

	_, err = catalog.Reverse("loans")
	assert.ErrorIs(t, err, catalog.ErrNoSuchRoute)

	_, err = catalog.Reverse("book-detail")
	assert.Error(t, err)

	assert.Panics(t, func() { catalog.MustReverse("loans") })
}

func TestLoanStatus(t *testing.T) {
	labels := map[catalog.LoanStatus]string{
		catalog.StatusMaintenance: "Maintenance",
		catalog.StatusOnLoan:      "On loan",
		catalog.StatusAvailable:   "Available",
		catalog.StatusReserved:    "Reserved",
	}
	for status, label := range labels {
		assert.True(t, status.Valid())
		assert.Equal(t, label, status.String())

		parsed, err := catalog.ParseLoanStatus(label)
		require.NoError(t, err)
		assert.Equal(t, status, parsed)

		parsed, err = catalog.ParseLoanStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}

	assert.False(t, catalog.LoanStatus("x").Valid())
	assert.False(t, catalog.LoanStatus("").Valid())

	_, err := catalog.ParseLoanStatus("lost")
	assert.ErrorIs(t, err, catalog.ErrValidation)
}

func TestValidate(t *testing.T) {
	valid := catalog.Book{
		Title:   "Dune",
		Summary: "Spice, sand and politics.",
		ISBN:    "9780441013593",
	}
	assert.NoError(t, catalog.Validate(&valid))

	t.Run("isbn is at most 13 characters", func(t *testing.T) {
		b := valid
		b.ISBN = "97804410135930"
		err := catalog.Validate(&b)
		assert.ErrorIs(t, err, catalog.ErrValidation)
		assert.Contains(t, err.Error(), "Book.ISBN must be at most 13 characters")
	})

	t.Run("ten character isbn is accepted", func(t *testing.T) {
		b := valid
		b.ISBN = "0441013597"
		assert.NoError(t, catalog.Validate(&b))
	})

	t.Run("isbn is required", func(t *testing.T) {
		b := valid
		b.ISBN = ""
		assert.ErrorIs(t, catalog.Validate(&b), catalog.ErrValidation)
	})

	t.Run("summary is bounded", func(t *testing.T) {
		b := valid
		b.Summary = string(make([]byte, 1001))
		assert.ErrorIs(t, catalog.Validate(&b), catalog.ErrValidation)
	})

	t.Run("author names are required", func(t *testing.T) {
		err := catalog.Validate(&catalog.Author{FirstName: "Frank"})
		assert.ErrorIs(t, err, catalog.ErrValidation)
		assert.Contains(t, err.Error(), "Author.LastName is required")
	})

	t.Run("status must be a known code", func(t *testing.T) {
		err := catalog.Validate(&catalog.BookInstance{Imprint: "Ace, 1990", Status: "x"})
		assert.ErrorIs(t, err, catalog.ErrValidation)
	})

	t.Run("genre name is bounded", func(t *testing.T) {
		long := make([]rune, 201)
		for i := range long {
			long[i] = 'a'
		}
		assert.ErrorIs(t, catalog.Validate(&catalog.Genre{Name: string(long)}), catalog.ErrValidation)
	})
}

func TestDialectFor(t *testing.T) {
	d, err := catalog.DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, catalog.SQLite.Driver, d.Driver)

	d, err = catalog.DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "pgx", d.Driver)

	_, err = catalog.DialectFor("mysql")
	assert.ErrorIs(t, err, catalog.ErrUnknownDialect)
}

package catalog

import (
	"pollex.nl/catalog/model"
)

const (
	genreTable     = "catalog_genre"
	languageTable  = "catalog_language"
	authorTable    = "catalog_author"
	bookTable      = "catalog_book"
	bookGenreTable = "catalog_book_genre"
	instanceTable  = "catalog_bookinstance"
)

func nullableKey(key *int64) (int64, bool) {
	if key == nil {
		return 0, false
	}
	return *key, true
}

func pointsAt(key *int64, id int64) bool {
	return key != nil && *key == id
}

var (
	GenreSchema = model.New[Genre](genreTable).
		AddSimpleField("id", func(t *Genre) any { return &t.ID }).
		AddSimpleField("name", func(t *Genre) any { return &t.Name }).
		ReferencedBy(bookGenreTable, "genre_id", model.Cascade)

	LanguageSchema = model.New[Language](languageTable).
		AddSimpleField("id", func(t *Language) any { return &t.ID }).
		AddSimpleField("name", func(t *Language) any { return &t.Name }).
		ReferencedBy(bookTable, "language_id", model.SetNull)

	AuthorSchema = model.New[Author](authorTable).
		AddSimpleField("id", func(t *Author) any { return &t.ID }).
		AddSimpleField("first_name", func(t *Author) any { return &t.FirstName }).
		AddSimpleField("last_name", func(t *Author) any { return &t.LastName }).
		AddSimpleField("date_of_birth", func(t *Author) any { return &t.DateOfBirth }).
		AddSimpleField("date_of_death", func(t *Author) any { return &t.DateOfDeath }).
		ReferencedBy(bookTable, "author_id", model.SetNull).
		OrderBy("last_name", "first_name")

	BookSchema = model.New[Book](bookTable).
		AddSimpleField("id", func(t *Book) any { return &t.ID }).
		AddSimpleField("title", func(t *Book) any { return &t.Title }).
		AddSimpleField("author_id", func(t *Book) any { return &t.AuthorID }).
		AddSimpleField("summary", func(t *Book) any { return &t.Summary }).
		AddSimpleField("isbn", func(t *Book) any { return &t.ISBN }).
		AddSimpleField("language_id", func(t *Book) any { return &t.LanguageID }).
		AddRelation("author",
			model.HasOne(AuthorSchema,
				func(b Book, a Author) bool { return pointsAt(b.AuthorID, a.ID) },
				func(b *Book, a Author) { b.Author = &a },
				model.WhereKeys("id", func(b Book) (int64, bool) { return nullableKey(b.AuthorID) }),
				model.DependsOn("author_id", "author.id"),
			),
		).
		AddRelation("language",
			model.HasOne(LanguageSchema,
				func(b Book, l Language) bool { return pointsAt(b.LanguageID, l.ID) },
				func(b *Book, l Language) { b.Language = &l },
				model.WhereKeys("id", func(b Book) (int64, bool) { return nullableKey(b.LanguageID) }),
				model.DependsOn("language_id", "language.id"),
			),
		).
		AddRelation("genres",
			model.ManyToMany(GenreSchema,
				model.Through{Table: bookGenreTable, ParentCol: "book_id", ChildCol: "genre_id"},
				func(b Book) int64 { return b.ID },
				func(g Genre) int64 { return g.ID },
				func(b *Book, genres []Genre) { b.Genres = genres },
				model.DependsOn("id"),
			),
		).
		ReferencedBy(bookGenreTable, "book_id", model.Cascade).
		ReferencedBy(instanceTable, "book_id", model.SetNull)

	BookInstanceSchema = model.New[BookInstance](instanceTable).
		AddSimpleField("id", func(t *BookInstance) any { return &t.ID }).
		AddSimpleField("book_id", func(t *BookInstance) any { return &t.BookID }).
		AddSimpleField("imprint", func(t *BookInstance) any { return &t.Imprint }).
		AddSimpleField("due_back", func(t *BookInstance) any { return &t.DueBack }).
		AddSimpleField("status", func(t *BookInstance) any { return &t.Status }).
		AddRelation("book",
			model.HasOne(BookSchema,
				func(bi BookInstance, b Book) bool { return pointsAt(bi.BookID, b.ID) },
				func(bi *BookInstance, b Book) { bi.Book = &b },
				model.WhereKeys("id", func(bi BookInstance) (int64, bool) { return nullableKey(bi.BookID) }),
				model.DependsOn("book_id", "book.id"),
			),
		).
		OrderBy("due_back")
)

// Reverse relations close cycles between the schemas above, so they are
// registered once every schema exists.
func init() {
	AuthorSchema.AddRelation("books",
		model.HasMany(BookSchema,
			func(a Author, b Book) bool { return pointsAt(b.AuthorID, a.ID) },
			func(a *Author, books []Book) { a.Books = books },
			model.WhereIDs("author_id", func(a Author) int64 { return a.ID }),
			model.DependsOn("id", "books.author_id"),
		),
	)

	BookSchema.AddRelation("instances",
		model.HasMany(BookInstanceSchema,
			func(b Book, bi BookInstance) bool { return pointsAt(bi.BookID, b.ID) },
			func(b *Book, instances []BookInstance) { b.Instances = instances },
			model.WhereIDs("book_id", func(b Book) int64 { return b.ID }),
			model.DependsOn("id", "instances.book_id"),
		),
	)
}

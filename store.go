package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"pollex.nl/catalog/model"
)

// Store reads and writes catalog records. Writes are validated first and
// deletes apply the on-delete policies declared on each schema inside a
// single transaction.
type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      squirrel.StatementBuilderType
}

func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(dialect.placeholder).RunWith(db),
	}
}

// Open connects to dsn with the dialect's driver and checks the connection.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Driver, err)
	}

	return NewStore(db, dialect), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(sb squirrel.StatementBuilderType) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := fn(s.sb.RunWith(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Default().Error("withTx: failed to roll back", "error", rbErr.Error())
		}
		return err
	}

	return tx.Commit()
}

// =================
// Genre
// =================

func (s *Store) CreateGenre(ctx context.Context, g *Genre) error {
	if err := Validate(g); err != nil {
		return err
	}

	id, err := insert(ctx, s.sb, genreTable, genreValues(g))
	if err != nil {
		return err
	}

	g.ID = id
	return nil
}

func (s *Store) UpdateGenre(ctx context.Context, g *Genre) error {
	if err := Validate(g); err != nil {
		return err
	}

	return update(ctx, s.sb, genreTable, g.ID, genreValues(g))
}

// DeleteGenre removes the genre and its book associations. Books stay.
func (s *Store) DeleteGenre(ctx context.Context, id int64) error {
	return remove(ctx, s, GenreSchema, id)
}

func (s *Store) Genre(ctx context.Context, id int64) (*Genre, error) {
	return get(ctx, s.sb, GenreSchema, id, nil)
}

func (s *Store) Genres(ctx context.Context) ([]Genre, error) {
	return list(ctx, s.sb, GenreSchema, nil)
}

func genreValues(g *Genre) map[string]any {
	return map[string]any{"name": g.Name}
}

// =================
// Language
// =================

func (s *Store) CreateLanguage(ctx context.Context, l *Language) error {
	if err := Validate(l); err != nil {
		return err
	}

	id, err := insert(ctx, s.sb, languageTable, languageValues(l))
	if err != nil {
		return err
	}

	l.ID = id
	return nil
}

func (s *Store) UpdateLanguage(ctx context.Context, l *Language) error {
	if err := Validate(l); err != nil {
		return err
	}

	return update(ctx, s.sb, languageTable, l.ID, languageValues(l))
}

// DeleteLanguage removes the language and clears it from books written in it.
func (s *Store) DeleteLanguage(ctx context.Context, id int64) error {
	return remove(ctx, s, LanguageSchema, id)
}

func (s *Store) Language(ctx context.Context, id int64) (*Language, error) {
	return get(ctx, s.sb, LanguageSchema, id, nil)
}

func (s *Store) Languages(ctx context.Context) ([]Language, error) {
	return list(ctx, s.sb, LanguageSchema, nil)
}

func languageValues(l *Language) map[string]any {
	return map[string]any{"name": l.Name}
}

// =================
// Author
// =================

func (s *Store) CreateAuthor(ctx context.Context, a *Author) error {
	if err := Validate(a); err != nil {
		return err
	}

	id, err := insert(ctx, s.sb, authorTable, authorValues(a))
	if err != nil {
		return err
	}

	a.ID = id
	return nil
}

func (s *Store) UpdateAuthor(ctx context.Context, a *Author) error {
	if err := Validate(a); err != nil {
		return err
	}

	return update(ctx, s.sb, authorTable, a.ID, authorValues(a))
}

// DeleteAuthor removes the author. Their books stay, with no author.
func (s *Store) DeleteAuthor(ctx context.Context, id int64) error {
	return remove(ctx, s, AuthorSchema, id)
}

// Author fetches one author. expand may name "books" and nested relations
// such as "books.genres".
func (s *Store) Author(ctx context.Context, id int64, expand ...string) (*Author, error) {
	return get(ctx, s.sb, AuthorSchema, id, expand)
}

// Authors lists authors by last name, then first name.
func (s *Store) Authors(ctx context.Context, expand ...string) ([]Author, error) {
	return list(ctx, s.sb, AuthorSchema, expand)
}

func authorValues(a *Author) map[string]any {
	return map[string]any{
		"first_name":    a.FirstName,
		"last_name":     a.LastName,
		"date_of_birth": dateValue(a.DateOfBirth),
		"date_of_death": dateValue(a.DateOfDeath),
	}
}

// =================
// Book
// =================

// CreateBook inserts the book together with its genre set.
func (s *Store) CreateBook(ctx context.Context, b *Book) error {
	if err := Validate(b); err != nil {
		return err
	}

	var id int64
	err := s.withTx(ctx, func(sb squirrel.StatementBuilderType) error {
		var err error
		if id, err = insert(ctx, sb, bookTable, bookValues(b)); err != nil {
			return err
		}

		return setGenres(ctx, sb, id, b.GenreIDs())
	})
	if err != nil {
		return err
	}

	b.ID = id
	return nil
}

// UpdateBook rewrites the book and replaces its genre set with b.Genres.
func (s *Store) UpdateBook(ctx context.Context, b *Book) error {
	if err := Validate(b); err != nil {
		return err
	}

	return s.withTx(ctx, func(sb squirrel.StatementBuilderType) error {
		if err := update(ctx, sb, bookTable, b.ID, bookValues(b)); err != nil {
			return err
		}

		return setGenres(ctx, sb, b.ID, b.GenreIDs())
	})
}

// DeleteBook removes the book and its genre associations. Its copies stay,
// with no book.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	return remove(ctx, s, BookSchema, id)
}

// Book fetches one book. expand may name "author", "language", "genres",
// "instances" and nested relations.
func (s *Store) Book(ctx context.Context, id int64, expand ...string) (*Book, error) {
	return get(ctx, s.sb, BookSchema, id, expand)
}

func (s *Store) Books(ctx context.Context, expand ...string) ([]Book, error) {
	return list(ctx, s.sb, BookSchema, expand)
}

func bookValues(b *Book) map[string]any {
	return map[string]any{
		"title":       b.Title,
		"author_id":   b.AuthorID,
		"summary":     b.Summary,
		"isbn":        b.ISBN,
		"language_id": b.LanguageID,
	}
}

func setGenres(ctx context.Context, sb squirrel.StatementBuilderType, bookID int64, genreIDs []int64) error {
	_, err := sb.Delete(bookGenreTable).
		Where(squirrel.Eq{"book_id": bookID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("clear genres of book %d: %w", bookID, err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	q := sb.Insert(bookGenreTable).Columns("book_id", "genre_id")
	for _, genreID := range genreIDs {
		q = q.Values(bookID, genreID)
	}

	if _, err := q.ExecContext(ctx); err != nil {
		return fmt.Errorf("set genres of book %d: %w", bookID, err)
	}

	return nil
}

// =================
// BookInstance
// =================

// CreateBookInstance inserts a copy under a fresh random id unless bi.ID is
// already set. An empty status becomes StatusMaintenance. bi is only
// updated once the insert succeeds.
func (s *Store) CreateBookInstance(ctx context.Context, bi *BookInstance) error {
	row := *bi
	if row.Status == "" {
		row.Status = StatusMaintenance
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := Validate(&row); err != nil {
		return err
	}

	values := instanceValues(&row)
	values["id"] = s.dialect.uuid(row.ID)

	if _, err := s.sb.Insert(instanceTable).SetMap(values).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert %s: %w", instanceTable, err)
	}

	bi.ID, bi.Status = row.ID, row.Status
	return nil
}

func (s *Store) UpdateBookInstance(ctx context.Context, bi *BookInstance) error {
	if err := Validate(bi); err != nil {
		return err
	}

	return update(ctx, s.sb, instanceTable, s.dialect.uuid(bi.ID), instanceValues(bi))
}

// SetLoanStatus assigns a new status to a copy, whatever its current one.
func (s *Store) SetLoanStatus(ctx context.Context, id uuid.UUID, status LoanStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown loan status %q", ErrValidation, string(status))
	}

	return update(ctx, s.sb, instanceTable, s.dialect.uuid(id), map[string]any{"status": string(status)})
}

func (s *Store) DeleteBookInstance(ctx context.Context, id uuid.UUID) error {
	return remove(ctx, s, BookInstanceSchema, s.dialect.uuid(id))
}

// BookInstance fetches one copy. expand may name "book" and nested
// relations such as "book.author".
func (s *Store) BookInstance(ctx context.Context, id uuid.UUID, expand ...string) (*BookInstance, error) {
	return get(ctx, s.sb, BookInstanceSchema, s.dialect.uuid(id), expand)
}

// BookInstances lists copies by due date.
func (s *Store) BookInstances(ctx context.Context, expand ...string) ([]BookInstance, error) {
	return list(ctx, s.sb, BookInstanceSchema, expand)
}

// BookInstancesByStatus lists copies with the given status by due date.
func (s *Store) BookInstancesByStatus(ctx context.Context, status LoanStatus, expand ...string) ([]BookInstance, error) {
	return list(ctx, s.sb, BookInstanceSchema, expand, model.Where("status", string(status)))
}

func instanceValues(bi *BookInstance) map[string]any {
	return map[string]any{
		"book_id":  bi.BookID,
		"imprint":  bi.Imprint,
		"due_back": dateValue(bi.DueBack),
		"status":   string(bi.Status),
	}
}

// =================
// Utilities
// =================

func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}

func insert(ctx context.Context, sb squirrel.StatementBuilderType, table string, values map[string]any) (int64, error) {
	var id int64
	err := sb.Insert(table).
		SetMap(values).
		Suffix("RETURNING id").
		QueryRowContext(ctx).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}

	return id, nil
}

func update(ctx context.Context, sb squirrel.StatementBuilderType, table string, key any, values map[string]any) error {
	res, err := sb.Update(table).
		SetMap(values).
		Where(squirrel.Eq{"id": key}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update %s %v: %w", table, key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s %v: %w", table, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %v", ErrNotFound, table, key)
	}

	return nil
}

func remove[T any](ctx context.Context, s *Store, schema *model.Schema[T], key any) error {
	return s.withTx(ctx, func(sb squirrel.StatementBuilderType) error {
		n, err := schema.Delete(ctx, sb, key)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s %v", ErrNotFound, schema.Table, key)
		}
		return nil
	})
}

func get[T any](
	ctx context.Context,
	sb squirrel.StatementBuilderType,
	schema *model.Schema[T],
	key any,
	expand []string,
) (*T, error) {
	item, err := schema.Query(append([]string{"*"}, expand...)...).
		Where(schema.Key, key).
		CollectOne(ctx, sb)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %v", ErrNotFound, schema.Table, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %v: %w", schema.Table, key, err)
	}

	return item, nil
}

func list[T any](
	ctx context.Context,
	sb squirrel.StatementBuilderType,
	schema *model.Schema[T],
	expand []string,
	mods ...model.QueryMod,
) ([]T, error) {
	q := schema.Query(append([]string{"*"}, expand...)...)
	for _, mod := range mods {
		q = q.ModifyQuery(mod)
	}

	items, err := q.Collect(ctx, sb)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", schema.Table, err)
	}

	return items, nil
}

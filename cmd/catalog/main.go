// Command catalog manages a library catalog database from the shell.
//
//	catalog migrate              apply schema migrations
//	catalog seed                 add a few sample records
//	catalog books                list books with author, language and genres
//	catalog authors              list authors with their books
//	catalog copies [status]      list copies, optionally by status code or label
//	catalog delete-author <id>   delete an author, keeping their books
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"pollex.nl/catalog"
)

func main() {
	cfg := loadConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	dialect, err := catalog.DialectFor(cfg.Driver)
	if err != nil {
		slog.Error("bad configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := catalog.Open(ctx, dialect, cfg.DSN)
	if err != nil {
		slog.Error("cannot open database", "dsn", redactDSN(cfg.DSN), "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(ctx, store, os.Stdout, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: catalog migrate|seed|books|authors|copies [status]|delete-author <id>")
}

var errUsage = errors.New("usage")

func run(ctx context.Context, store *catalog.Store, out io.Writer, command string, args []string) error {
	switch command {
	case "migrate":
		return store.Migrate(ctx)
	case "seed":
		return seed(ctx, store)
	case "books":
		return listBooks(ctx, store, out)
	case "authors":
		return listAuthors(ctx, store, out)
	case "copies":
		return listCopies(ctx, store, out, args)
	case "delete-author":
		if len(args) != 1 {
			return fmt.Errorf("%w: delete-author <id>", errUsage)
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: author id %q", errUsage, args[0])
		}
		if err := store.DeleteAuthor(ctx, id); err != nil {
			return err
		}
		slog.Info("author deleted", "id", id)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func listBooks(ctx context.Context, store *catalog.Store, out io.Writer) error {
	books, err := store.Books(ctx, "author", "language", "genres")
	if err != nil {
		return err
	}

	for _, b := range books {
		author := "-"
		if b.Author != nil {
			author = b.Author.String()
		}
		language := "-"
		if b.Language != nil {
			language = b.Language.String()
		}
		genres := lo.Map(b.Genres, func(g catalog.Genre, _ int) string { return g.String() })

		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t[%s]\n",
			b.URL(), b, b.ISBN, author, language, strings.Join(genres, ", "))
	}

	return nil
}

func listAuthors(ctx context.Context, store *catalog.Store, out io.Writer) error {
	authors, err := store.Authors(ctx, "books")
	if err != nil {
		return err
	}

	for _, a := range authors {
		titles := lo.Map(a.Books, func(b catalog.Book, _ int) string { return b.String() })
		fmt.Fprintf(out, "%s\t%s\t%d books\t%s\n", a.URL(), a, len(a.Books), strings.Join(titles, "; "))
	}

	return nil
}

func listCopies(ctx context.Context, store *catalog.Store, out io.Writer, args []string) error {
	var (
		instances []catalog.BookInstance
		err       error
	)
	if len(args) > 0 {
		status, perr := catalog.ParseLoanStatus(args[0])
		if perr != nil {
			return perr
		}
		instances, err = store.BookInstancesByStatus(ctx, status, "book")
	} else {
		instances, err = store.BookInstances(ctx, "book")
	}
	if err != nil {
		return err
	}

	for _, bi := range instances {
		due := "-"
		if bi.DueBack != nil {
			due = bi.DueBack.Format(time.DateOnly)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", bi, bi.Imprint, bi.Status, due)
	}

	return nil
}

func seed(ctx context.Context, store *catalog.Store) error {
	english := catalog.Language{Name: "English"}
	if err := store.CreateLanguage(ctx, &english); err != nil {
		return err
	}

	scifi := catalog.Genre{Name: "Science Fiction"}
	if err := store.CreateGenre(ctx, &scifi); err != nil {
		return err
	}

	born := time.Date(1920, time.October, 8, 0, 0, 0, 0, time.UTC)
	died := time.Date(1986, time.February, 11, 0, 0, 0, 0, time.UTC)
	herbert := catalog.Author{FirstName: "Frank", LastName: "Herbert", DateOfBirth: &born, DateOfDeath: &died}
	if err := store.CreateAuthor(ctx, &herbert); err != nil {
		return err
	}

	dune := catalog.Book{
		Title:      "Dune",
		AuthorID:   &herbert.ID,
		Summary:    "A desert planet, its spice and the family sent to rule it.",
		ISBN:       "9780441013593",
		LanguageID: &english.ID,
		Genres:     []catalog.Genre{scifi},
	}
	if err := store.CreateBook(ctx, &dune); err != nil {
		return err
	}

	due := time.Now().UTC().AddDate(0, 0, 21)
	copies := []catalog.BookInstance{
		{BookID: &dune.ID, Imprint: "Ace, 1990", Status: catalog.StatusAvailable},
		{BookID: &dune.ID, Imprint: "Ace, 1990", Status: catalog.StatusOnLoan, DueBack: &due},
		{BookID: &dune.ID, Imprint: "Chilton, 1965"},
	}
	for i := range copies {
		if err := store.CreateBookInstance(ctx, &copies[i]); err != nil {
			return err
		}
	}

	slog.Info("seeded catalog", "books", 1, "copies", len(copies))
	return nil
}

package model_test

import (
	"database/sql"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type Publisher struct {
	ID     int64
	Name   string
	Titles []Title
}

type Title struct {
	ID          int64
	Name        string
	PublisherID *int64
	Publisher   *Publisher
	Tags        []Tag
}

type Tag struct {
	ID    int64
	Label string
}

func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	db, err := sql.Open("sqlite3", "file::memory:")
	require.NoError(t, err)
	// every new connection to :memory: is a fresh database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	sb := squirrel.StatementBuilder.RunWith(db)

	return db, sb
}

const migrate = `
	create table publishers (
		id integer not null,
		name text not null
	);
	create table titles (
		id integer not null,
		name text not null,
		publisher_id integer
	);
	create table tags (
		id integer not null,
		label text not null
	);
	create table title_tags (
		title_id integer not null,
		tag_id integer not null
	);
	`

//nolint:errcheck
func seed(sb squirrel.StatementBuilderType) {
	sb.Insert("publishers").
		Values(1, "Gollancz").
		Values(2, "Ace").Exec()
	sb.Insert("titles").
		Values(1, "Dune", 2).
		Values(2, "Neuromancer", 2).
		Values(3, "Hyperion", 1).
		Values(4, "The Dispossessed", nil).Exec()
	sb.Insert("tags").
		Values(1, "space").
		Values(2, "cyberpunk").
		Values(3, "classic").Exec()
	sb.Insert("title_tags").
		Columns("title_id", "tag_id").
		Values(1, 1).
		Values(1, 3).
		Values(2, 2).
		Values(3, 1).Exec()
}

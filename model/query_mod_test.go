package model_test

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"pollex.nl/catalog/model"
)

func TestQueryModColShouldWork(t *testing.T) {
	mod := model.Col("id")
	q := mod(squirrel.Select(), "table")
	queryString, _ := q.MustSql()
	assert.Equal(t, "SELECT table.id", queryString)
}

func TestQueryModColShouldWorkWithMany(t *testing.T) {
	mod := model.Col("id", "name")
	q := mod(squirrel.Select(), "table")
	queryString, _ := q.MustSql()
	assert.Equal(t, "SELECT table.id, table.name", queryString)
}

func TestQueryModOrderBy(t *testing.T) {
	mod := model.OrderBy("last_name", "first_name")
	q := mod(squirrel.Select("*").From("authors"), "authors")
	queryString, _ := q.MustSql()
	assert.Equal(t, "SELECT * FROM authors ORDER BY authors.last_name, authors.first_name", queryString)
}

func TestQueryModWhere(t *testing.T) {
	mod := model.Where("id", []int64{1, 2})
	q := mod(squirrel.Select("*").From("books"), "books")
	queryString, args := q.MustSql()
	assert.Equal(t, "SELECT * FROM books WHERE books.id IN (?,?)", queryString)
	assert.Equal(t, []any{int64(1), int64(2)}, args)
}

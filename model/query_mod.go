package model

import "github.com/Masterminds/squirrel"

type (
	Q        = squirrel.SelectBuilder
	QueryMod func(q Q, table string) Q
)

func Col(names ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, name := range names {
			q = q.Column(TableCol(table, name))
		}
		return q
	}
}

// OrderBy sorts ascending on the given columns, in order.
func OrderBy(names ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, name := range names {
			q = q.OrderBy(TableCol(table, name))
		}
		return q
	}
}

// Where filters on column equality. A slice value becomes an IN clause.
func Where(col string, value any) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): value})
	}
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}

package model

import (
	"context"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

type (
	Resolve[M any]       func(ctx context.Context, sb squirrel.StatementBuilderType, parents []M, fields []string) error
	FieldCheck           func(fields string) error
	Binder[M, N any]     func(parents []M, children []N)
	QueryModifier[M any] func(query Query[M]) Query[M]
)

type Relation[M any] struct {
	Resolve  Resolve[M]
	Check    FieldCheck
	QueryMod QueryModifier[M]
	// IsRelation reports whether name is a relation of the child schema.
	IsRelation func(name string) bool
}

func HasMany[M, N any](
	child *Schema[N],
	belongTogether func(M, N) bool,
	assign func(*M, []N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindBy(belongTogether, assign),
		wherer,
		func(query Query[M]) Query[M] { return query.Select(depends...) },
	)
}

func HasOne[M, N any](
	child *Schema[N],
	belongTogether func(M, N) bool,
	assign func(*M, N),
	wherer func(parents []M) QueryMod,
	depends []string,
) Relation[M] {
	return CreateRelation(
		child,
		BindByOne(belongTogether, assign),
		wherer,
		func(query Query[M]) Query[M] { return query.Select(depends...) },
	)
}

func CreateRelation[M, N any](
	child *Schema[N],
	binder Binder[M, N],
	wherer func(parents []M) QueryMod,
	depends QueryModifier[M],
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		IsRelation: child.hasRelation,
		Resolve: func(ctx context.Context, sb squirrel.StatementBuilderType, parents []M, fields []string) error {
			children, err := child.Query(fields...).
				ModifyQuery(wherer(parents)).
				Collect(ctx, sb)
			if err != nil {
				return err
			}

			binder(parents, children)

			return nil
		},
		QueryMod: depends,
	}
}

// Through names a join table linking two schemas.
type Through struct {
	Table     string
	ParentCol string
	ChildCol  string
}

type link[K comparable] struct {
	parent K
	child  K
}

// ManyToMany resolves children reachable through a join table. Children are
// bound in the order the child schema returns them.
func ManyToMany[M, N any, K comparable](
	child *Schema[N],
	through Through,
	parentKey func(M) K,
	childKey func(N) K,
	assign func(*M, []N),
	depends []string,
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		IsRelation: child.hasRelation,
		Resolve: func(ctx context.Context, sb squirrel.StatementBuilderType, parents []M, fields []string) error {
			parentKeys := lo.Uniq(lo.Map(parents, func(m M, _ int) K { return parentKey(m) }))

			q := sb.Select(through.ParentCol, through.ChildCol).
				From(through.Table).
				Where(squirrel.Eq{through.ParentCol: parentKeys})
			links, err := Collect[link[K]](ctx, q, func(l *link[K]) (Ptrs, Action) {
				return Ptrs{&l.parent, &l.child}, nil
			})
			if err != nil {
				return err
			}

			linked := make(map[link[K]]struct{}, len(links))
			for _, l := range links {
				linked[l] = struct{}{}
			}

			var children []N
			if len(links) > 0 {
				childKeys := lo.Uniq(lo.Map(links, func(l link[K], _ int) K { return l.child }))
				children, err = child.Query(append(slices.Clone(fields), child.Key)...).
					ModifyQuery(Where(child.Key, childKeys)).
					Collect(ctx, sb)
				if err != nil {
					return err
				}
			}

			for ix := range parents {
				parent := &parents[ix]
				key := parentKey(*parent)
				collection := []N{}

				for _, c := range children {
					if _, ok := linked[link[K]{key, childKey(c)}]; ok {
						collection = append(collection, c)
					}
				}

				assign(parent, collection)
			}

			return nil
		},
		QueryMod: func(query Query[M]) Query[M] { return query.Select(depends...) },
	}
}

func BindBy[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, []N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]
			var collection []N

			for _, child := range children {
				if !belongTogether(*parent, child) {
					continue
				}

				collection = append(collection, child)
			}

			assign(parent, collection)
		}
	}
}

func BindByOne[M, N any](
	belongTogether func(M, N) bool,
	assign func(*M, N),
) Binder[M, N] {
	return func(parents []M, children []N) {
		for ix := range parents {
			parent := &parents[ix]

			for _, child := range children {
				if !belongTogether(*parent, child) {
					continue
				}

				assign(parent, child)
				break
			}

		}
	}
}

func WhereIDs[M any, K any](col string, getID func(m M) K) func(parents []M) QueryMod {
	return func(parents []M) QueryMod {
		return Where(col, lo.Map(
			parents,
			func(parent M, _ int) K { return getID(parent) },
		))
	}
}

// WhereKeys is WhereIDs for nullable foreign keys: parents for which getKey
// reports false are left out of the IN clause.
func WhereKeys[M any, K comparable](col string, getKey func(m M) (K, bool)) func(parents []M) QueryMod {
	return func(parents []M) QueryMod {
		return Where(col, lo.Uniq(lo.FilterMap(
			parents,
			func(parent M, _ int) (K, bool) { return getKey(parent) },
		)))
	}
}

func DependsOn(fields ...string) []string {
	return fields
}

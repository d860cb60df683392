package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

var (
	// ErrNoSuchField is returned when there is no field or no relation with that name.
	ErrNoSuchField = errors.New("field does not exist")
	// ErrNoSuchRelation is returned only when trying to select a nested field on a relation that does not exist.
	ErrNoSuchRelation = errors.New("relation does not exist")
	// ErrTooManyResults is returned when CollectOne is called but returned many models
	ErrTooManyResults = errors.New("too many result for CollectOne")
)

// Query is an immutable selection of fields and relations on a Schema.
// Execution takes a squirrel.StatementBuilderType so the caller decides
// the runner (a *sql.DB or *sql.Tx) and the placeholder format.
type Query[T any] struct {
	schema Schema[T]

	selectedFields         map[string]FieldType[T]
	selectedRelations      map[string]Relation[T]
	selectedRelationFields map[string][]string
	tableAlias             string
	queryMods              []QueryMod

	errors []error
}

func newQuery[T any](schema Schema[T], fields ...string) Query[T] {
	query := Query[T]{
		schema:                 schema,
		selectedFields:         map[string]FieldType[T]{},
		selectedRelations:      map[string]Relation[T]{},
		selectedRelationFields: map[string][]string{},
		tableAlias:             schema.Table,
		queryMods:              []QueryMod{},
		errors:                 []error{},
	}

	return query.Select(fields...)
}

func (query Query[T]) ModifyQuery(mod QueryMod) Query[T] {
	query.queryMods = append(query.queryMods, mod)

	return query
}

// Where narrows the query to rows whose column equals value.
func (query Query[T]) Where(col string, value any) Query[T] {
	return query.ModifyQuery(Where(col, value))
}

func (query Query[T]) Select(fieldNames ...string) Query[T] {
	if len(fieldNames) == 0 {
		query.selectAllFields()
		return query
	}

	for _, name := range fieldNames {
		query.resolveSelect(name)
	}

	return query
}

func (query *Query[T]) resolveSelect(name string) {
	field, rest := isNested(name)

	if field == "*" {
		if rest != "" {
			query.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}

		query.selectAllFields()
		return
	}

	if query.schema.hasRelation(field) {
		relation := query.schema.Relations[field]
		if rest != "" && rest != "*" {
			if err := relation.Check(rest); err != nil {
				query.addError(err)
				return
			}
			// Expanding a nested relation loads the intermediate records in full.
			if next, _ := isNested(rest); relation.IsRelation != nil && relation.IsRelation(next) {
				query.selectRelation(field, "*")
			}
		}
		query.selectRelation(field, rest)
		return
	}

	if query.schema.hasField(field) {
		// Fields cannot have nesting
		if rest != "" {
			query.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}
		query.selectField(field)
		return
	}

	query.addError(fmt.Errorf("%w: %s", ErrNoSuchField, field))
}

func (query *Query[T]) selectAllFields() {
	for name := range query.schema.Fields {
		query.selectedFields[name] = query.schema.Fields[name]
	}
}

func (query *Query[T]) selectField(name string) {
	query.selectedFields[name] = query.schema.Fields[name]
}

func (query *Query[T]) selectRelation(relName, relField string) {
	if relField == "" {
		relField = "*"
	}

	query.selectedRelations[relName] = query.schema.Relations[relName]

	if query.selectedRelationFields[relName] == nil {
		query.selectedRelationFields[relName] = []string{}
	}

	query.selectedRelationFields[relName] = append(query.selectedRelationFields[relName], relField)
}

// =================
// Finishers
// =================

func (query Query[T]) Err() error {
	return errors.Join(query.errors...)
}

func (query Query[T]) Collect(ctx context.Context, sb squirrel.StatementBuilderType) ([]T, error) {
	if err := query.Err(); err != nil {
		return nil, err
	}

	parents, err := query.collectBaseModels(ctx, sb)
	if err != nil {
		return nil, err
	}

	if err := query.resolveRelations(ctx, sb, parents); err != nil {
		return nil, err
	}

	return parents, nil
}

func (query Query[T]) CollectOne(ctx context.Context, sb squirrel.StatementBuilderType) (*T, error) {
	if err := query.Err(); err != nil {
		return nil, err
	}

	parents, err := query.collectBaseModels(ctx, sb)
	if err != nil {
		return nil, err
	}

	if len(parents) == 0 {
		return nil, sql.ErrNoRows
	} else if len(parents) > 1 {
		return nil, ErrTooManyResults
	}

	if err := query.resolveRelations(ctx, sb, parents); err != nil {
		return nil, err
	}

	return &parents[0], nil
}

func (query Query[T]) collectBaseModels(
	ctx context.Context,
	sb squirrel.StatementBuilderType,
) ([]T, error) {
	q := sb.Select().From(query.schema.Table)

	// Apply schema mods
	q = applyMods(q, query.tableAlias, query.schema.QueryMods)
	// Apply runtime mods
	q = applyMods(q, query.tableAlias, query.queryMods)

	// Add relation field dependencies
	for _, rel := range query.selectedRelations {
		query = rel.QueryMod(query)
	}

	// Collapse fields
	var scans []RowScan[T]
	for _, field := range query.selectedFields {
		q = field.Mod(q, query.tableAlias)
		scans = append(scans, field.RowScan)
	}

	parents, err := Collect(ctx, q, flattenRowScan(scans))
	if err != nil {
		return nil, err
	}

	return parents, nil
}

func (query Query[T]) resolveRelations(
	ctx context.Context,
	sb squirrel.StatementBuilderType,
	parents []T,
) error {
	if len(parents) == 0 {
		return nil
	}

	for name, relation := range query.selectedRelations {
		err := relation.Resolve(
			ctx,
			sb,
			parents,
			query.selectedRelationFields[name],
		)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", name, err)
		}
	}

	return nil
}

// =================
// Utilities
// =================

func (query *Query[T]) addError(err error) {
	query.errors = append(query.errors, err)
}

func isNested(name string) (string, string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 1 {
		return name, ""
	}
	return parts[0], parts[1]
}

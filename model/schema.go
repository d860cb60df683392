package model

import "fmt"

// Schema describes how a Go type T maps onto a table: its fields, the
// relations that can be expanded from it, query mods applied to every
// query (such as a default ordering) and the tables that point at it.
type Schema[T any] struct {
	Table      string
	Key        string
	Fields     map[string]FieldType[T]
	Relations  map[string]Relation[T]
	QueryMods  []QueryMod
	References []Reference
}

func New[T any](table string) *Schema[T] {
	schema := &Schema[T]{
		Table:     table,
		Key:       "id",
		Fields:    map[string]FieldType[T]{},
		Relations: make(map[string]Relation[T]),
	}

	return schema
}

func (schema *Schema[T]) AddField(
	name string,
	mod QueryMod,
	rowScan RowScan[T],
) *Schema[T] {
	schema.Fields[name] = Field(mod, rowScan)

	return schema
}

func (schema *Schema[T]) AddFieldType(name string, field FieldType[T]) *Schema[T] {
	schema.Fields[name] = field

	return schema
}

// AddSimpleField When the field name is the same as the column name and maps directly, use this.
func (schema *Schema[T]) AddSimpleField(name string, ptr func(t *T) any) *Schema[T] {
	schema = schema.AddField(name, Col(name), Ptr(ptr))

	return schema
}

func (schema *Schema[T]) AddRelation(name string, relation Relation[T]) *Schema[T] {
	schema.Relations[name] = relation

	return schema
}

func (schema *Schema[T]) ModifyQuery(mod QueryMod) *Schema[T] {
	schema.QueryMods = append(schema.QueryMods, mod)

	return schema
}

// OrderBy sets the default ordering used by every query on this schema,
// including queries issued while resolving relations.
func (schema *Schema[T]) OrderBy(cols ...string) *Schema[T] {
	return schema.ModifyQuery(OrderBy(cols...))
}

// ReferencedBy registers a column in another table that holds this schema's
// key. Delete applies the given policy to it before removing the row.
func (schema *Schema[T]) ReferencedBy(table, column string, onDelete OnDelete) *Schema[T] {
	schema.References = append(schema.References, Reference{
		Table:    table,
		Column:   column,
		OnDelete: onDelete,
	})

	return schema
}

func (schema *Schema[T]) Query(fields ...string) Query[T] {
	return newQuery(*schema, fields...)
}

func (schema *Schema[T]) Check(field string) error {
	field, rest := isNested(field)

	if field == "" || field == "*" {
		return nil
	}

	if schema.hasRelation(field) {
		if err := schema.Relations[field].Check(rest); err != nil {
			return err
		}
		return nil
	}

	if schema.hasField(field) {
		if rest != "" {
			return fmt.Errorf("%w: %s", ErrNoSuchField, field)
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNoSuchField, field)
}

func (schema *Schema[T]) hasRelation(name string) bool {
	_, ok := schema.Relations[name]
	return ok
}

func (schema *Schema[T]) hasField(name string) bool {
	_, ok := schema.Fields[name]
	return ok
}

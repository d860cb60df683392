package model

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// OnDelete is the policy applied to a referencing column when the row it
// points at is deleted.
type OnDelete int

const (
	// SetNull clears the referencing column and keeps the dependent row.
	SetNull OnDelete = iota
	// Cascade removes the dependent row. Used for join tables.
	Cascade
)

func (o OnDelete) String() string {
	switch o {
	case SetNull:
		return "SET NULL"
	case Cascade:
		return "CASCADE"
	default:
		return fmt.Sprintf("OnDelete(%d)", int(o))
	}
}

type Reference struct {
	Table    string
	Column   string
	OnDelete OnDelete
}

// Delete applies every registered reference policy for key and then removes
// the row itself, returning the number of rows removed from schema.Table.
// Run it with a transaction-bound builder so the policies and the delete
// commit together.
func (schema *Schema[T]) Delete(ctx context.Context, sb squirrel.StatementBuilderType, key any) (int64, error) {
	for _, ref := range schema.References {
		if err := ref.apply(ctx, sb, key); err != nil {
			return 0, err
		}
	}

	res, err := sb.Delete(schema.Table).
		Where(squirrel.Eq{schema.Key: key}).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", schema.Table, err)
	}

	return res.RowsAffected()
}

func (ref Reference) apply(ctx context.Context, sb squirrel.StatementBuilderType, key any) error {
	var err error
	switch ref.OnDelete {
	case SetNull:
		_, err = sb.Update(ref.Table).
			Set(ref.Column, nil).
			Where(squirrel.Eq{ref.Column: key}).
			ExecContext(ctx)
	case Cascade:
		_, err = sb.Delete(ref.Table).
			Where(squirrel.Eq{ref.Column: key}).
			ExecContext(ctx)
	default:
		return fmt.Errorf("%s.%s: unknown policy %s", ref.Table, ref.Column, ref.OnDelete)
	}
	if err != nil {
		return fmt.Errorf("%s %s.%s: %w", ref.OnDelete, ref.Table, ref.Column, err)
	}

	return nil
}

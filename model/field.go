package model

type (
	// Ptrs are the scan destinations for one row.
	Ptrs []any
	// RowScan hands out scan destinations for t. The Action, which may be
	// nil, runs after the row is scanned.
	RowScan[T any] func(*T) (Ptrs, Action)
	Action         func()
	// FieldType pairs the columns a field adds to a select with the way
	// they are scanned back.
	FieldType[T any] struct {
		Mod     QueryMod
		RowScan RowScan[T]
	}
)

// Ptr scans a single column straight into the pointer returned by ptr.
func Ptr[T any](ptr func(t *T) any) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		return Ptrs{ptr(t)}, nil
	}
}

func Field[T any](mod QueryMod, scan RowScan[T]) FieldType[T] {
	return FieldType[T]{mod, scan}
}

func flattenRowScan[T any](rowScans []RowScan[T]) RowScan[T] {
	return func(t *T) (Ptrs, Action) {
		var (
			pointers Ptrs
			actions  []Action
		)
		for _, rowScan := range rowScans {
			ptr, action := rowScan(t)
			pointers = append(pointers, ptr...)
			if action != nil {
				actions = append(actions, action)
			}
		}

		return pointers, flattenActions(actions)
	}
}

// flattenActions returns nil when there is nothing to run.
func flattenActions(actions []Action) Action {
	if len(actions) == 0 {
		return nil
	}
	return func() {
		for _, action := range actions {
			action()
		}
	}
}

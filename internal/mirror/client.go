package mirror

import "context"

// Record is one mirror row as a column name to value map.
type Record = map[string]any

// Client is the narrow capability this engine needs from the external store.
// Every call is independently atomic; there is no cross-call transaction.
// Implementations classify all failures into the SyncError taxonomy before
// returning.
type Client interface {
	// Select reads rows. columns nil means all columns, filters are ANDed
	// equality conditions, limit 0 means no limit.
	Select(ctx context.Context, table string, columns []string, filters Record, limit int) ([]Record, error)
	// Insert writes one row and returns the store's echo of it.
	Insert(ctx context.Context, table string, rec Record) (Record, error)
	// Update rewrites the row identified by keyColumn=id and returns the echo.
	Update(ctx context.Context, table, keyColumn string, id any, rec Record) (Record, error)
	// Delete removes the row identified by keyColumn=id, returning the number
	// of rows actually deleted. Deleting an absent id is not an error.
	Delete(ctx context.Context, table, keyColumn string, id any) (int64, error)
	// Execute runs a raw statement, returning any rows it produces.
	Execute(ctx context.Context, stmt string) ([]Record, error)
	// Call invokes a remote procedure with named parameters.
	Call(ctx context.Context, procedure string, params Record) ([]Record, error)
}

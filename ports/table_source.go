package ports

import (
	"context"

	"statdesc/domain/dataset"
)

// TableSource reads a tabular file into raw string cells.
type TableSource interface {
	ReadTable(ctx context.Context) (*dataset.RawTable, error)
}

// TableCoercer turns raw cells into a numeric table.
type TableCoercer interface {
	Coerce(raw *dataset.RawTable) (dataset.Table, error)
}

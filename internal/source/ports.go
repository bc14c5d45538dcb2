package source

import (
	"context"

	"frota/internal/core"
)

// Ports for outbound adapters.
type (
	// RowReader performs a full read of the fleet cost table. Rows are
	// returned as stored; ordering and label canonicalization are left to
	// core.Normalize.
	RowReader interface {
		ReadRows(ctx context.Context) ([]core.RawRow, error)
	}

	// Pinger reports whether the source is reachable, for readiness checks.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

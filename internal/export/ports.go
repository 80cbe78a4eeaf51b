// Package export defines the outbound ports for mirroring faturamentos into
// an external spreadsheet.
package export

import (
	"context"

	"github.com/mateuscelis/sistema/internal/core"
)

// Ports for outbound adapters.
type (
	// FaturamentoWriter mirrors a faturamento into the export destination,
	// replacing any row previously written for the same id.
	FaturamentoWriter interface {
		Upsert(ctx context.Context, f core.Faturamento) (rowRef string, err error)
	}

	// FaturamentoRemover removes a previously exported faturamento.
	FaturamentoRemover interface {
		Remove(ctx context.Context, id int64) error
	}
)

// Strategy set for recurrence scheduling. Each período de recorrência knows
// how to advance a vencimento to the next occurrence.
package services

import (
	"fmt"
	"time"

	"github.com/mateuscelis/sistema/internal/core"
)

// RecorrenciaChecker is the strategy interface for one período de
// recorrência.
type RecorrenciaChecker interface {
	// Proxima returns the vencimento of the occurrence following venc.
	Proxima(venc time.Time) time.Time
}

// SemanalChecker advances by seven days.
type SemanalChecker struct{}

func (SemanalChecker) Proxima(venc time.Time) time.Time { return venc.AddDate(0, 0, 7) }

// QuinzenalChecker advances by fourteen days.
type QuinzenalChecker struct{}

func (QuinzenalChecker) Proxima(venc time.Time) time.Time { return venc.AddDate(0, 0, 14) }

// MensalChecker advances by one calendar month (Jan 31 -> Mar 3 normalization
// follows time.AddDate).
type MensalChecker struct{}

func (MensalChecker) Proxima(venc time.Time) time.Time { return venc.AddDate(0, 1, 0) }

// AnualChecker advances by one year.
type AnualChecker struct{}

func (AnualChecker) Proxima(venc time.Time) time.Time { return venc.AddDate(1, 0, 0) }

// CheckerFor returns the strategy for a recorrência.
func CheckerFor(r core.Recorrencia) (RecorrenciaChecker, error) {
	switch r {
	case core.RecorrenciaSemanal:
		return SemanalChecker{}, nil
	case core.RecorrenciaQuinzenal:
		return QuinzenalChecker{}, nil
	case core.RecorrenciaMensal:
		return MensalChecker{}, nil
	case core.RecorrenciaAnual:
		return AnualChecker{}, nil
	default:
		return nil, fmt.Errorf("recorrencia desconhecida: %q", r)
	}
}

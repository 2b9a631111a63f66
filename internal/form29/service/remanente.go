package service

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/contaflow/tributo/internal/period"
	summarydomain "github.com/contaflow/tributo/internal/summary/domain"
	"go.uber.org/zap"
)

// PreviousPeriodCredit resolves the carry-forward credit from the prior
// calendar month. Internally-computed drafts win once the system has a
// full cycle of history; the authority's downloaded filing bootstraps new
// customers. Unavailability degrades to 0, the authority-favorable default.
func (s *Service) PreviousPeriodCredit(ctx context.Context, companyID snowflake.ID, p period.Period) int64 {
	prev := p.Prev()

	draft, err := s.repo.LatestSettled(ctx, companyID, prev.Year, int(prev.Month))
	if err != nil {
		s.log.Warn("previous-period draft lookup failed, assuming zero credit",
			zap.String("company_id", companyID.String()),
			zap.String("period", prev.String()),
			zap.Error(err),
		)
		return 0
	}
	if draft != nil {
		// A negative net IVA means the taxpayer over-credited and carries
		// the excess forward.
		if draft.NetIVA < 0 {
			return -draft.NetIVA
		}
		return 0
	}

	filing, err := s.repo.LatestVigenteFiling(ctx, companyID, prev.Year, int(prev.Month))
	if err != nil {
		s.log.Warn("authority filing lookup failed, assuming zero credit",
			zap.String("company_id", companyID.String()),
			zap.String("period", prev.String()),
			zap.Error(err),
		)
		return 0
	}
	if filing == nil {
		return 0
	}

	return extractionCode(filing.Extraction, summarydomain.RemanenteCode)
}

// extractionCode reads a numeric F29 code out of the filing's scraped
// "codes" table. Scrapes are loosely typed, so both JSON numbers and
// numeric strings are accepted.
func extractionCode(extraction map[string]any, code string) int64 {
	if extraction == nil {
		return 0
	}
	codes, ok := extraction["codes"].(map[string]any)
	if !ok {
		return 0
	}
	return coerceInt64(codes[code])
}

func coerceInt64(value any) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

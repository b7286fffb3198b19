package missing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Service computes the missing set for a period. It is a pure read over
// the repository; repeated calls with unchanged data yield identical
// results.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *Cache
	group  singleflight.Group
	now    func() time.Time
}

// NewService creates the missing-payments service.
func NewService(logger *slog.Logger, repo Repository, cache *Cache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache, now: time.Now}
}

// MissingPayments resolves the period and builds the missing set as the
// difference between billed units and units covered by an income record.
func (s *Service) MissingPayments(ctx context.Context, orgID int64, month, year int) (*MissingSet, error) {
	period, err := ResolvePeriod(month, year)
	if err != nil {
		return nil, err
	}

	key, err := s.cache.BuildKey(ctx, "missing",
		strconv.FormatInt(orgID, 10), strconv.Itoa(year), strconv.Itoa(month))
	if err != nil {
		s.logger.Warn("missing payments cache key", slog.Any("error", err))
		return s.build(ctx, orgID, period)
	}

	// Concurrent identical queries collapse into one repository load.
	value, err, _ := s.group.Do(key, func() (any, error) {
		var set MissingSet
		err := s.cache.FetchJSON(ctx, key, &set, func(ctx context.Context) (any, error) {
			built, err := s.build(ctx, orgID, period)
			if err != nil {
				return nil, err
			}
			return built, nil
		})
		if err != nil {
			return nil, err
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	set := value.(MissingSet)
	// DaysOverdue is recomputed so cached entries do not serve a stale
	// day count. The slice is copied because singleflight may hand the
	// same backing array to concurrent callers.
	units := make([]MissingUnit, len(set.Units))
	copy(units, set.Units)
	overdue := period.DaysOverdue(s.now())
	for i := range units {
		units[i].DaysOverdue = overdue
	}
	set.Units = units
	return &set, nil
}

func (s *Service) build(ctx context.Context, orgID int64, period Period) (*MissingSet, error) {
	billed, err := s.repo.BilledUnits(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("billed units: %w", err)
	}
	paid, err := s.repo.PaidUnitIDs(ctx, orgID, period.Month, period.Year)
	if err != nil {
		return nil, fmt.Errorf("paid unit ids: %w", err)
	}

	overdue := period.DaysOverdue(s.now())
	set := MissingSet{
		Period:              period,
		TotalExpectedAmount: decimal.Zero,
	}
	for _, bu := range billed {
		if _, covered := paid[bu.UnitID]; covered {
			continue
		}
		set.Units = append(set.Units, MissingUnit{BilledUnit: bu, DaysOverdue: overdue})
		set.TotalExpectedAmount = set.TotalExpectedAmount.Add(bu.MonthlyFee)
	}
	set.TotalMissing = len(set.Units)
	return &set, nil
}

// FindMissingUnit returns one unit from the missing set by id, or nil
// when the unit is not missing for the period.
func (s *Service) FindMissingUnit(ctx context.Context, orgID int64, month, year int, unitID int64) (*MissingUnit, error) {
	set, err := s.MissingPayments(ctx, orgID, month, year)
	if err != nil {
		return nil, err
	}
	for i := range set.Units {
		if set.Units[i].UnitID == unitID {
			return &set.Units[i], nil
		}
	}
	return nil, nil
}

// Invalidate drops cached query results after income or unit writes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

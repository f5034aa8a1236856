package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/simaogato/cashhealth-backend/internal/usecase/aggregator"
	"github.com/simaogato/cashhealth-backend/internal/usecase/kpi"
	"github.com/simaogato/cashhealth-backend/internal/usecase/ledger"
	"github.com/simaogato/cashhealth-backend/internal/usecase/projection"
)

// ErrInvalidQuery is returned when a query names an impossible period
var ErrInvalidQuery = errors.New("invalid query")

// Query selects the working set and the instant statuses are evaluated at
// A zero EvaluatedAt means "now" according to the service clock
type Query struct {
	Periods     []domain.Period
	EvaluatedAt time.Time
}

// Overview bundles every derived view of one selection
type Overview struct {
	Periods           []domain.Period
	EvaluatedAt       time.Time
	KPIs              kpi.KPIs
	Monthly           []aggregator.MonthlyTotal
	InflowCategories  []aggregator.CategoryTotal
	OutflowCategories []aggregator.CategoryTotal
	Projection        projection.Projection
	PendingInflows    []domain.Transaction
}

// DashboardService handles dashboard-related operations over the loaded ledger
type DashboardService struct {
	Store *ledger.Store
	// Now is the service clock; tests replace it to replay history
	Now func() time.Time

	workingSets *cache.Cache
	logger      zerolog.Logger
}

// NewDashboardService creates a new DashboardService instance
// Filtered working sets are memoised for cacheTTL; a zero TTL keeps them until eviction by cleanup
func NewDashboardService(store *ledger.Store, cacheTTL time.Duration, logger zerolog.Logger) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = cache.NoExpiration
	}
	return &DashboardService{
		Store:       store,
		Now:         time.Now,
		workingSets: cache.New(cacheTTL, 10*time.Minute),
		logger:      logger.With().Str("component", "dashboard").Logger(),
	}
}

// ListPeriods returns every period bucket present in the ledger, oldest first
func (s *DashboardService) ListPeriods(ctx context.Context) ([]domain.Period, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Store.Periods(), nil
}

// GetKPIs computes the scalar indicators of the selection
// The burn rate divides by the number of selected periods, not by the periods that have data
func (s *DashboardService) GetKPIs(ctx context.Context, q Query) (kpi.KPIs, error) {
	txs, now, err := s.workingSet(ctx, q)
	if err != nil {
		return kpi.KPIs{}, err
	}
	return kpi.Compute(txs, len(distinct(q.Periods)), now), nil
}

// GetMonthlySeries returns the per-period inflow and outflow totals of the selection
func (s *DashboardService) GetMonthlySeries(ctx context.Context, q Query) ([]aggregator.MonthlyTotal, error) {
	txs, _, err := s.workingSet(ctx, q)
	if err != nil {
		return nil, err
	}
	return aggregator.MonthlyTotals(txs), nil
}

// GetCategoryBreakdown returns the category totals of one direction
func (s *DashboardService) GetCategoryBreakdown(ctx context.Context, q Query, direction domain.Direction) ([]aggregator.CategoryTotal, error) {
	if direction != domain.DirectionInflow && direction != domain.DirectionOutflow {
		return nil, fmt.Errorf("%w: direction must be INFLOW or OUTFLOW", ErrInvalidQuery)
	}

	txs, _, err := s.workingSet(ctx, q)
	if err != nil {
		return nil, err
	}
	return aggregator.CategoryTotals(txs, direction), nil
}

// GetProjection returns the cumulative balance line and its what-if counterpart
func (s *DashboardService) GetProjection(ctx context.Context, q Query, sim domain.Simulation) (projection.Projection, error) {
	if err := sim.Validate(); err != nil {
		return projection.Projection{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	txs, _, err := s.workingSet(ctx, q)
	if err != nil {
		return projection.Projection{}, err
	}
	return projection.Project(txs, sim), nil
}

// GetPendingInflows returns the inflows still pending at the evaluation instant, in load order
func (s *DashboardService) GetPendingInflows(ctx context.Context, q Query) ([]domain.Transaction, error) {
	txs, now, err := s.workingSet(ctx, q)
	if err != nil {
		return nil, err
	}
	return domain.Select(txs, domain.All(domain.IsInflow, domain.Pending(now))), nil
}

// GetOverview computes every view of the selection against a single evaluation instant
func (s *DashboardService) GetOverview(ctx context.Context, q Query, sim domain.Simulation) (*Overview, error) {
	if err := sim.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	txs, now, err := s.workingSet(ctx, q)
	if err != nil {
		return nil, err
	}
	selected := distinct(q.Periods)

	return &Overview{
		Periods:           selected,
		EvaluatedAt:       now,
		KPIs:              kpi.Compute(txs, len(selected), now),
		Monthly:           aggregator.MonthlyTotals(txs),
		InflowCategories:  aggregator.CategoryTotals(txs, domain.DirectionInflow),
		OutflowCategories: aggregator.CategoryTotals(txs, domain.DirectionOutflow),
		Projection:        projection.Project(txs, sim),
		PendingInflows:    domain.Select(txs, domain.All(domain.IsInflow, domain.Pending(now))),
	}, nil
}

// workingSet resolves the evaluation instant and returns the filtered transactions
// The returned slice is shared with the cache and must not be modified
func (s *DashboardService) workingSet(ctx context.Context, q Query) ([]domain.Transaction, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, time.Time{}, err
	}
	for _, p := range q.Periods {
		if p.Month < time.January || p.Month > time.December {
			return nil, time.Time{}, fmt.Errorf("%w: period %s has no month %d", ErrInvalidQuery, p, p.Month)
		}
	}

	now := q.EvaluatedAt
	if now.IsZero() {
		now = s.Now()
	}

	selected := distinct(q.Periods)
	key := selectionKey(selected)
	if cached, ok := s.workingSets.Get(key); ok {
		s.logger.Debug().Str("selection", key).Msg("working set cache hit")
		return cached.([]domain.Transaction), now, nil
	}

	txs := s.Store.Filter(selected)
	s.workingSets.SetDefault(key, txs)
	s.logger.Debug().Str("selection", key).Int("transactions", len(txs)).Msg("working set cache miss")

	return txs, now, nil
}

// distinct returns the selected periods without duplicates, oldest first
func distinct(periods []domain.Period) []domain.Period {
	seen := make(map[domain.Period]struct{}, len(periods))
	out := make([]domain.Period, 0, len(periods))
	for _, p := range periods {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func selectionKey(periods []domain.Period) string {
	parts := make([]string, len(periods))
	for i, p := range periods {
		parts[i] = p.String()
	}
	return "periods:" + strings.Join(parts, ",")
}

package costs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
	"github.com/quotedesk/quotedesk/internal/pricing"
)

const (
	reportCacheTTL      = time.Minute
	reportVersionKey    = "costs:report:version"
	reportCacheKeyShape = "costs:report:v%d:%s"
)

// RevenueSource resolves the customer-facing grand totals of a
// quotation, per currency.
type RevenueSource interface {
	Revenue(ctx context.Context, quotationID string) (map[string]float64, error)
}

type Service struct {
	repo    Repository
	revenue RevenueSource
	cache   *redis.Client

	// reportHash is the bcrypt hash the cost report password is
	// checked against. Empty disables the gate.
	reportHash string

	// group collapses concurrent report recomputes for the same
	// cache key into a single database aggregation.
	group singleflight.Group
}

func NewService(repo Repository, revenue RevenueSource, cache *redis.Client, reportHash string) *Service {
	return &Service{repo: repo, revenue: revenue, cache: cache, reportHash: reportHash}
}

// AuthorizeReport checks the report password. Cost reports expose
// margins, so they sit behind a shared password rather than open to
// every user of the app.
func (s *Service) AuthorizeReport(password string) error {
	if s.reportHash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.reportHash), []byte(password)); err != nil {
		return fmt.Errorf("%w: wrong report password", httpx.ErrUnauthorized)
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context, scope string) ([]Category, error) {
	return s.repo.ListCategories(ctx, scope)
}

func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	c := Category{ID: uuid.NewString(), Name: req.Name, Scope: CategoryScope(req.Scope)}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create cost category: %w", err)
	}
	return s.repo.GetCategory(ctx, c.ID)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*Category, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Scope != nil {
		updates["scope"] = *req.Scope
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
			return nil, err
		}
		s.bumpReportVersion(ctx)
	}
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.bumpReportVersion(ctx)
	return nil
}

func (s *Service) ListEntries(ctx context.Context, quotationID string) ([]Entry, error) {
	return s.repo.ListEntries(ctx, quotationID)
}

func (s *Service) CreateEntry(ctx context.Context, quotationID string, req CreateEntryRequest) (*Entry, error) {
	if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	e := Entry{
		ID:          uuid.NewString(),
		QuotationID: quotationID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		EntryDate:   req.EntryDate,
	}
	if e.EntryDate.IsZero() {
		e.EntryDate = time.Now()
	}

	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("create cost entry: %w", err)
	}
	s.bumpReportVersion(ctx)
	return s.repo.GetEntry(ctx, e.ID)
}

func (s *Service) UpdateEntry(ctx context.Context, id string, req UpdateEntryRequest) (*Entry, error) {
	updates := make(map[string]interface{})
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.EntryDate != nil {
		updates["entry_date"] = *req.EntryDate
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateEntry(ctx, id, updates); err != nil {
			return nil, err
		}
		s.bumpReportVersion(ctx)
	}
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.bumpReportVersion(ctx)
	return nil
}

// Profit computes the per-quotation margin: customer grand totals
// minus internal costs, covering every currency either side uses.
func (s *Service) Profit(ctx context.Context, quotationID string) (*QuotationProfit, error) {
	revenue, err := s.revenue.Revenue(ctx, quotationID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListEntries(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	records := make([]pricing.CostRecord, len(entries))
	for i, e := range entries {
		records[i] = pricing.CostRecord{Amount: e.Amount, Currency: e.Currency}
	}
	costTotals := pricing.AggregateCosts(records)

	return &QuotationProfit{
		QuotationID: quotationID,
		Revenue:     revenue,
		Costs:       costTotals,
		Profit:      pricing.Profit(revenue, costTotals),
	}, nil
}

// Report aggregates internal costs as category → currency → total.
// Results are cached briefly; any cost write bumps the version key so
// stale entries simply fall out of scope.
func (s *Service) Report(ctx context.Context, filter ReportFilter) (Report, error) {
	key := s.reportCacheKey(ctx, filter)
	if key != "" {
		if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var report Report
			if err := json.Unmarshal(cached, &report); err == nil {
				return report, nil
			}
		}
	}

	flightKey := key
	if flightKey == "" {
		payload, _ := json.Marshal(filter)
		flightKey = string(payload)
	}
	result, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		rows, err := s.repo.ReportRows(ctx, filter)
		if err != nil {
			return nil, err
		}

		report := Report{}
		for _, row := range rows {
			byCurrency, ok := report[row.CategoryName]
			if !ok {
				byCurrency = map[string]float64{}
				report[row.CategoryName] = byCurrency
			}
			byCurrency[row.Currency] = pricing.Round2(row.Total)
		}

		if key != "" {
			if payload, err := json.Marshal(report); err == nil {
				s.cache.Set(ctx, key, payload, reportCacheTTL)
			}
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(Report), nil
}

func (s *Service) reportCacheKey(ctx context.Context, filter ReportFilter) string {
	if s.cache == nil {
		return ""
	}
	version, err := s.cache.Get(ctx, reportVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return ""
	}
	payload, err := json.Marshal(filter)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(reportCacheKeyShape, version, payload)
}

func (s *Service) bumpReportVersion(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Incr(ctx, reportVersionKey)
}

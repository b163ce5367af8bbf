package graveyard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crazycube/graveyard-api/internal/adapter"
	"github.com/crazycube/graveyard-api/internal/cache"
	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/metrics"
	"github.com/crazycube/graveyard-api/internal/providers/monad"
	"github.com/crazycube/graveyard-api/internal/store"
)

const (
	routeClaimable = "claimable"
	routeLedger    = "ledger"
	routeReady     = "ready"

	// readyCacheKey is the single key the graveyard readiness report is cached under
	readyCacheKey = "graveyard"
)

// Service builds the claimable and graveyard reports
//
//go:generate mockgen -source=service.go -destination=../mocks/graveyard_service.go -package=mocks -mock_names=Service=MockGraveyardService
type Service interface {
	// Claimable classifies an owner's burned tokens found in the graveyard window or in BurnScheduled events
	Claimable(ctx context.Context, address string, fresh bool) (*domain.ClaimableReport, error)

	// LedgerClaimable classifies an owner's burned tokens found in BurnScheduled events only
	LedgerClaimable(ctx context.Context, address string, fresh bool) (*domain.ClaimableReport, error)

	// GraveyardReady splits the graveyard window by grave release state
	GraveyardReady(ctx context.Context, fresh bool) (*domain.GraveyardReport, error)

	// ScanBurns returns the raw BurnScheduled events of an owner in a block range
	ScanBurns(ctx context.Context, address string, fromBlock, toBlock uint64) ([]domain.BurnScheduledEvent, domain.ScanResult, error)

	// PurgeCache drops every cached report and returns how many were removed
	PurgeCache() int
}

// Config holds the service configuration
type Config struct {
	// StartBlock is the first block scanned for BurnScheduled events
	StartBlock uint64
	// WindowPageSize is the limit passed to viewGraveWindow
	WindowPageSize uint64
	// MaxPages bounds a graveyard enumeration
	MaxPages int
	// CacheTTL is how long reports are served from memory
	CacheTTL time.Duration
	// CacheMaxEntries bounds the number of cached reports per route
	CacheMaxEntries int
}

type service struct {
	config Config
	client monad.Client
	store  store.Store
	clock  adapter.Clock

	claimableCache *cache.Cache[*domain.ClaimableReport]
	ledgerCache    *cache.Cache[*domain.ClaimableReport]
	readyCache     *cache.Cache[*domain.GraveyardReport]
}

// NewService creates a new service. The store is optional; without it every
// ledger request scans from the configured start block.
func NewService(cfg Config, client monad.Client, st store.Store, clock adapter.Clock) Service {
	cacheConfig := func(namespace string) cache.Config {
		return cache.Config{Namespace: namespace, TTL: cfg.CacheTTL, MaxEntries: cfg.CacheMaxEntries}
	}

	return &service{
		config:         cfg,
		client:         client,
		store:          st,
		clock:          clock,
		claimableCache: cache.New[*domain.ClaimableReport](cacheConfig(routeClaimable)),
		ledgerCache:    cache.New[*domain.ClaimableReport](cacheConfig(routeLedger)),
		readyCache:     cache.New[*domain.GraveyardReport](cacheConfig(routeReady)),
	}
}

// Claimable classifies an owner's burned tokens found in the graveyard window or in BurnScheduled events
func (s *service) Claimable(ctx context.Context, address string, fresh bool) (*domain.ClaimableReport, error) {
	owner, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	report, cached, err := s.claimableCache.GetOrLoad(ctx, owner, fresh, func(ctx context.Context) (*domain.ClaimableReport, error) {
		return s.buildClaimable(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	return withCachedClaimable(report, cached), nil
}

// LedgerClaimable classifies an owner's burned tokens found in BurnScheduled events only
func (s *service) LedgerClaimable(ctx context.Context, address string, fresh bool) (*domain.ClaimableReport, error) {
	owner, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	report, cached, err := s.ledgerCache.GetOrLoad(ctx, owner, fresh, func(ctx context.Context) (*domain.ClaimableReport, error) {
		return s.buildLedger(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	return withCachedClaimable(report, cached), nil
}

// GraveyardReady splits the graveyard window by grave release state
func (s *service) GraveyardReady(ctx context.Context, fresh bool) (*domain.GraveyardReport, error) {
	report, cached, err := s.readyCache.GetOrLoad(ctx, readyCacheKey, fresh, s.buildReady)
	if err != nil {
		return nil, err
	}

	out := *report
	out.Cached = cached
	return &out, nil
}

// ScanBurns returns the raw BurnScheduled events of an owner in a block range
func (s *service) ScanBurns(ctx context.Context, address string, fromBlock, toBlock uint64) ([]domain.BurnScheduledEvent, domain.ScanResult, error) {
	owner, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, domain.ScanResult{}, err
	}
	return s.client.BurnScheduledEvents(ctx, owner, fromBlock, toBlock)
}

// PurgeCache drops every cached report and returns how many were removed
func (s *service) PurgeCache() int {
	return s.claimableCache.Purge() + s.ledgerCache.Purge() + s.readyCache.Purge()
}

func (s *service) buildClaimable(ctx context.Context, owner string) (*domain.ClaimableReport, error) {
	defer observe(routeClaimable, time.Now())

	var (
		graveIDs []domain.TokenID
		events   []domain.BurnScheduledEvent
		scan     domain.ScanResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := EnumerateGraveyard(gctx, s.client, s.enumerateOptions())
		if err != nil {
			return err
		}
		graveIDs = ids
		return nil
	})
	g.Go(func() error {
		var err error
		events, scan, err = s.client.BurnScheduledEvents(gctx, owner, s.config.StartBlock, 0)
		if err != nil {
			return fmt.Errorf("failed to scan burn events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]domain.TokenID, 0, len(graveIDs)+len(events))
	candidates = append(candidates, graveIDs...)
	for _, e := range events {
		candidates = append(candidates, e.TokenID)
	}

	records, err := s.client.BurnInfos(ctx, candidates)
	if err != nil {
		return nil, err
	}

	now := s.chainNow(ctx)
	classification := Classify(owner, recordList(records), now)

	logger.InfoCtx(ctx, "Built claimable report",
		zap.String("owner", owner),
		zap.Int("graveIDs", len(graveIDs)),
		zap.Int("events", len(events)),
		zap.Int("records", len(records)),
		zap.Int("claimable", len(classification.Claimable)),
		zap.Int("pending", len(classification.Pending)))

	return newClaimableReport(owner, classification, &scan, s.clock.Now()), nil
}

func (s *service) buildLedger(ctx context.Context, owner string) (*domain.ClaimableReport, error) {
	defer observe(routeLedger, time.Now())

	events, scan, err := s.ledgerEvents(ctx, owner)
	if err != nil {
		return nil, err
	}

	latest := latestEventByToken(events)
	candidates := make([]domain.TokenID, 0, len(latest))
	for id := range latest {
		candidates = append(candidates, id)
	}

	records, err := s.client.BurnInfos(ctx, candidates)
	if err != nil {
		return nil, err
	}

	now := s.chainNow(ctx)
	classification := Classify(owner, recordList(records), now)
	for _, bucket := range [][]domain.ClaimEntry{classification.Claimable, classification.Pending, classification.Claimed} {
		for i := range bucket {
			if e, ok := latest[bucket[i].TokenID]; ok {
				bucket[i].BlockNumber = e.BlockNumber
				bucket[i].TxHash = e.TxHash
			}
		}
	}

	logger.InfoCtx(ctx, "Built ledger report",
		zap.String("owner", owner),
		zap.Int("events", len(events)),
		zap.Int("claimable", len(classification.Claimable)),
		zap.Int("pending", len(classification.Pending)))

	return newClaimableReport(owner, classification, &scan, s.clock.Now()), nil
}

// ledgerEvents returns every BurnScheduled event of owner. With a store only
// blocks after the stored checkpoint are scanned.
func (s *service) ledgerEvents(ctx context.Context, owner string) ([]domain.BurnScheduledEvent, domain.ScanResult, error) {
	if s.store == nil {
		events, scan, err := s.client.BurnScheduledEvents(ctx, owner, s.config.StartBlock, 0)
		if err != nil {
			return nil, scan, fmt.Errorf("failed to scan burn events: %w", err)
		}
		return events, scan, nil
	}

	fromBlock := s.config.StartBlock
	checkpoint, ok, err := s.store.GetCheckpoint(ctx, owner)
	if err != nil {
		return nil, domain.ScanResult{}, err
	}
	if ok && checkpoint+1 > fromBlock {
		fromBlock = checkpoint + 1
	}

	events, scan, err := s.client.BurnScheduledEvents(ctx, owner, fromBlock, 0)
	if err != nil {
		return nil, scan, fmt.Errorf("failed to scan burn events: %w", err)
	}

	if scan.ToBlock >= scan.FromBlock {
		if err := s.store.SaveScan(ctx, owner, scan.ToBlock, events); err != nil {
			return nil, scan, err
		}
	}

	stored, err := s.store.ListBurnEvents(ctx, owner)
	if err != nil {
		return nil, scan, err
	}

	return stored, scan, nil
}

func (s *service) buildReady(ctx context.Context) (*domain.GraveyardReport, error) {
	defer observe(routeReady, time.Now())

	ids, err := EnumerateGraveyard(ctx, s.client, s.enumerateOptions())
	if err != nil {
		return nil, err
	}

	records, err := s.client.BurnInfos(ctx, ids)
	if err != nil {
		return nil, err
	}

	readiness := ClassifyReadiness(ids, records, s.chainNow(ctx))

	return &domain.GraveyardReport{
		Ready:       readiness.Ready,
		Cooling:     readiness.Cooling,
		Unknown:     readiness.Unknown,
		Total:       len(ids),
		GeneratedAt: s.clock.Now().UTC(),
	}, nil
}

func (s *service) enumerateOptions() EnumerateOptions {
	return EnumerateOptions{PageSize: s.config.WindowPageSize, MaxPages: s.config.MaxPages}
}

// chainNow returns the latest block timestamp, which is what the contracts
// compare claim and release times against. The wall clock is used when the
// head cannot be fetched.
func (s *service) chainNow(ctx context.Context) time.Time {
	head, err := s.client.LatestHead(ctx)
	if err != nil || head.Time.IsZero() {
		logger.WarnCtx(ctx, "Falling back to wall clock for classification", zap.Error(err))
		return s.clock.Now()
	}
	return head.Time
}

func observe(route string, start time.Time) {
	metrics.AggregationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func recordList(records map[domain.TokenID]domain.BurnRecord) []domain.BurnRecord {
	list := make([]domain.BurnRecord, 0, len(records))
	for _, r := range records {
		list = append(list, r)
	}
	return list
}

// latestEventByToken keeps the most recent event per token
func latestEventByToken(events []domain.BurnScheduledEvent) map[domain.TokenID]domain.BurnScheduledEvent {
	latest := make(map[domain.TokenID]domain.BurnScheduledEvent, len(events))
	for _, e := range events {
		prev, ok := latest[e.TokenID]
		if !ok || e.BlockNumber > prev.BlockNumber || (e.BlockNumber == prev.BlockNumber && e.LogIndex > prev.LogIndex) {
			latest[e.TokenID] = e
		}
	}
	return latest
}

func newClaimableReport(owner string, c Classification, scan *domain.ScanResult, generatedAt time.Time) *domain.ClaimableReport {
	return &domain.ClaimableReport{
		Address:        owner,
		Claimable:      c.Claimable,
		Pending:        c.Pending,
		Claimed:        c.Claimed,
		TotalClaimable: c.TotalClaimable.String(),
		TotalPending:   c.TotalPending.String(),
		Scan:           scan,
		GeneratedAt:    generatedAt.UTC(),
	}
}

// withCachedClaimable returns a shallow copy flagged with the cache state
func withCachedClaimable(report *domain.ClaimableReport, cached bool) *domain.ClaimableReport {
	out := *report
	out.Cached = cached
	return &out
}

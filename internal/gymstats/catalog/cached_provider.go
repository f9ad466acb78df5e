package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymtrainer/internal/cache"
	"github.com/2beens/gymtrainer/internal/telemetry/metrics"
	"github.com/2beens/gymtrainer/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultCacheTTL = 10 * time.Minute

var _ Provider = (*CachedProvider)(nil)

type CachedProviderParams struct {
	Provider Provider
	Cache    cache.Cache
	TTL      time.Duration
	Metrics  *metrics.Manager
}

// CachedProvider serves plans and days from the cache, falling back to the wrapped
// provider. Cache failures are logged and never fail a lookup.
type CachedProvider struct {
	provider Provider
	cache    cache.Cache
	ttl      time.Duration
	metrics  *metrics.Manager
}

func NewCachedProvider(params CachedProviderParams) *CachedProvider {
	if params.TTL <= 0 {
		params.TTL = DefaultCacheTTL
	}
	return &CachedProvider{
		provider: params.Provider,
		cache:    params.Cache,
		ttl:      params.TTL,
		metrics:  params.Metrics,
	}
}

func PlanCacheKey(planID string) string {
	return fmt.Sprintf("plan::%s", planID)
}

func DayCacheKey(planID, dayID string) string {
	return fmt.Sprintf("day::%s::%s", planID, dayID)
}

func (p *CachedProvider) GetPlan(ctx context.Context, planID string) (_ *TrainingPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.cached.getplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID))

	plan := &TrainingPlan{}
	key := PlanCacheKey(planID)
	if p.fromCache(ctx, key, plan) {
		return plan, nil
	}

	plan, err = p.provider.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	p.toCache(ctx, key, plan)
	return plan, nil
}

func (p *CachedProvider) GetDay(ctx context.Context, planID, dayID string) (_ *TrainingDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.cached.getday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID), attribute.String("day_id", dayID))

	day := &TrainingDay{}
	key := DayCacheKey(planID, dayID)
	if p.fromCache(ctx, key, day) {
		return day, nil
	}

	day, err = p.provider.GetDay(ctx, planID, dayID)
	if err != nil {
		return nil, err
	}
	p.toCache(ctx, key, day)
	return day, nil
}

func (p *CachedProvider) fromCache(ctx context.Context, key string, target any) bool {
	cached, err := p.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			p.countLookup("miss")
		} else {
			p.countLookup("error")
			log.Errorf("catalog cache get [%s]: %s", key, err)
		}
		return false
	}

	if err := json.Unmarshal(cached, target); err != nil {
		p.countLookup("error")
		log.Errorf("catalog cache unmarshal [%s]: %s", key, err)
		return false
	}

	p.countLookup("hit")
	log.Tracef("catalog cache hit [%s]", key)
	return true
}

func (p *CachedProvider) toCache(ctx context.Context, key string, value any) {
	valueJson, err := json.Marshal(value)
	if err != nil {
		log.Errorf("catalog cache marshal [%s]: %s", key, err)
		return
	}
	if err := p.cache.Set(ctx, key, valueJson, p.ttl); err != nil {
		log.Errorf("catalog cache set [%s]: %s", key, err)
	}
}

func (p *CachedProvider) countLookup(result string) {
	if p.metrics == nil {
		return
	}
	p.metrics.CounterCatalogLookups.WithLabelValues(result).Inc()
}

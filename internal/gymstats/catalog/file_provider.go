package catalog

import (
	"context"
	"fmt"

	"github.com/2beens/gymtrainer/internal/telemetry/tracing"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ Provider = (*FileProvider)(nil)

type catalogToml struct {
	Plans []TrainingPlan `toml:"plans"`
}

// FileProvider serves plans loaded once from a TOML catalog file.
type FileProvider struct {
	plans map[string]TrainingPlan
}

func NewFileProvider(path string) (*FileProvider, error) {
	var c catalogToml
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("decode catalog file [%s]: %w", path, err)
	}
	return newFileProvider(c)
}

// ParseFileProvider is NewFileProvider for catalog contents already in memory.
func ParseFileProvider(data string) (*FileProvider, error) {
	var c catalogToml
	if _, err := toml.Decode(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return newFileProvider(c)
}

func newFileProvider(c catalogToml) (*FileProvider, error) {
	plans := make(map[string]TrainingPlan, len(c.Plans))
	for _, plan := range c.Plans {
		if _, ok := plans[plan.ID]; ok {
			return nil, fmt.Errorf("duplicate plan [%s]", plan.ID)
		}
		if err := plan.normalize(); err != nil {
			return nil, err
		}
		plans[plan.ID] = plan
	}
	log.Debugf("catalog: loaded %d plans", len(plans))
	return &FileProvider{plans: plans}, nil
}

func (p *FileProvider) GetPlan(ctx context.Context, planID string) (_ *TrainingPlan, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "catalog.file.getplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID))

	plan, ok := p.plans[planID]
	if !ok {
		return nil, fmt.Errorf("plan [%s]: %w", planID, ErrNotFound)
	}
	return &plan, nil
}

func (p *FileProvider) GetDay(ctx context.Context, planID, dayID string) (_ *TrainingDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.file.getday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID), attribute.String("day_id", dayID))

	plan, err := p.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	day, ok := plan.Day(dayID)
	if !ok {
		return nil, fmt.Errorf("plan [%s] day [%s]: %w", planID, dayID, ErrNotFound)
	}
	return &day, nil
}

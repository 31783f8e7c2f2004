// Package pipeline runs one AI request end to end: load the usage counter,
// admit, generate, charge and record.
package pipeline

import (
	"context"
	"errors"
	"time"

	"quickai/internal/admission"
	"quickai/internal/domain"
	"quickai/internal/generation"
	"quickai/internal/infra"
	"quickai/internal/metrics"
)

// Ledger is the quota surface the pipeline needs.
type Ledger interface {
	Load(ctx context.Context, p domain.Principal) (int, error)
	Commit(ctx context.Context, p domain.Principal) (count int, charged bool, err error)
}

// Generator runs the capability's upstream work.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (generation.Result, error)
}

// Recorder appends a creation.
type Recorder interface {
	Record(ctx context.Context, c domain.NewCreation) (*domain.Creation, error)
}

type Pipeline struct {
	ledger    Ledger
	generator Generator
	recorder  Recorder
	metrics   *metrics.Metrics
	logger    infra.Logger
}

func New(ledger Ledger, generator Generator, recorder Recorder, m *metrics.Metrics, logger infra.Logger) *Pipeline {
	return &Pipeline{ledger: ledger, generator: generator, recorder: recorder, metrics: m, logger: logger}
}

// Run never returns an error: every path maps onto an Outcome. Upstream work
// runs on a context detached from ctx's cancellation so a client disconnect
// does not abandon a paid call halfway.
func (p *Pipeline) Run(ctx context.Context, principal domain.Principal, req generation.Request) Outcome {
	out := p.run(ctx, principal, req)
	p.metrics.Outcome(string(req.Capability), out.Kind())
	return out
}

func (p *Pipeline) run(ctx context.Context, principal domain.Principal, req generation.Request) Outcome {
	log := p.logger.With().
		Str("user_id", string(principal.Identity)).
		Str("plan", string(principal.Plan())).
		Str("capability", string(req.Capability)).
		Logger()

	counter, err := p.ledger.Load(ctx, principal)
	if err != nil {
		log.Error().Err(err).Msg("quota load failed")
		return Failed{Message: req.Capability.FailureMessage(), Detail: err.Error()}
	}

	decision := admission.Admit(principal, counter, req.Capability)
	if !decision.Allow {
		log.Info().Err(decision.Reason.Err()).Int("free_usage", counter).Str("reason", decision.Reason.String()).Msg("request denied")
		return Denied{Reason: decision.Reason}
	}

	work := context.WithoutCancel(ctx)
	start := time.Now()
	res, err := p.generator.Generate(work, req)
	p.metrics.Upstream(string(req.Capability), time.Since(start), err == nil)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			log.Info().Str("field", verr.Field).Msg("request rejected")
			return Failed{Message: verr.Message, Validation: true}
		}
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) {
			log.Warn().Err(uerr.Err).Dur("took", time.Since(start)).Msg("upstream call failed")
			return Failed{Message: uerr.Message, Detail: uerr.Detail()}
		}
		log.Error().Err(err).Msg("generation failed")
		return Failed{Message: req.Capability.FailureMessage(), Detail: err.Error()}
	}

	out := Admitted{Content: res.Content}
	count, charged, err := p.ledger.Commit(work, principal)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("quota commit failed")
	case charged:
		p.metrics.QuotaCharged()
		out.UsageCount = &count
	}

	if _, err := p.recorder.Record(work, domain.NewCreation{
		UserID:  principal.Identity,
		Prompt:  res.Prompt,
		Content: res.Content,
		Type:    req.Capability.CreationType(),
		Publish: res.Publish,
	}); err != nil {
		p.metrics.PersistFailed()
		log.Error().Err(err).Msg("creation not recorded")
	}

	log.Info().Dur("took", time.Since(start)).Msg("request completed")
	return out
}

package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/vayustack/vayu-intel/internal/models"
)

// FeedSource fetches zero or more partial threat records. Implementations
// isolate upstream failure from callers by returning an empty batch.
type FeedSource interface {
	FetchBatch(ctx context.Context) []models.PartialThreat
}

// Generator produces one fully-populated synthetic entity per call.
type Generator interface {
	Generate() models.Threat
}

// Aggregator orchestrates the fallback chain across the live feeds and the
// heuristic generator. FetchOne never fails and is never empty.
type Aggregator struct {
	primary    FeedSource
	secondary  FeedSource
	synth      Generator
	normalizer *Normalizer
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewAggregator wires the fallback chain. Either feed may be nil, in which
// case it is skipped; the generator must not be nil.
func NewAggregator(primary, secondary FeedSource, synth Generator, normalizer *Normalizer, rng *rand.Rand, logger *slog.Logger) *Aggregator {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		primary:    primary,
		secondary:  secondary,
		synth:      synth,
		normalizer: normalizer,
		rng:        rng,
		logger:     logger,
	}
}

// FetchOne returns exactly one canonical entity: a random member of the
// primary feed's batch when it delivers, else the secondary's, else a
// synthesized one. Upstream health never surfaces to the caller.
func (a *Aggregator) FetchOne(ctx context.Context) models.Threat {
	for _, feed := range []FeedSource{a.primary, a.secondary} {
		if feed == nil {
			continue
		}
		batch := feed.FetchBatch(ctx)
		if len(batch) == 0 {
			continue
		}
		pick := batch[a.rng.Intn(len(batch))]
		return a.normalizer.Normalize(pick, time.Now())
	}

	a.logger.Debug("live feeds empty, synthesizing entity")
	return a.synth.Generate()
}

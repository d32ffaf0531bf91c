// Package pipeline coordinates one matching run: drain the job queue,
// partition people, ask the model for pairings chunk by chunk, validate and
// persist. Chunks run strictly one after another; a failing chunk never
// stops the rest of the run.
package pipeline

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/ai"
	"github.com/teammatch/matchflow/internal/matching"
	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/queue"
	"github.com/teammatch/matchflow/internal/store"
	"github.com/teammatch/matchflow/internal/utils"
)

const (
	defaultMinScore        = 0.35
	defaultMaxSuggestions  = 5
	defaultMaxReasonLength = 80
	defaultMatchTTL        = 14 * 24 * time.Hour
	maxLogPreview          = 200
)

// Config carries the pipeline tunables. Zero values fall back to the
// defaults above.
type Config struct {
	DrainLimit      int
	ChunkSize       int
	MinScore        float64
	MaxSuggestions  int
	MaxReasonLength int
	MatchTTL        time.Duration
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = matching.DefaultChunkSize
	}
	if c.MinScore <= 0 {
		c.MinScore = defaultMinScore
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = defaultMaxSuggestions
	}
	if c.MaxReasonLength <= 0 {
		c.MaxReasonLength = defaultMaxReasonLength
	}
	if c.MatchTTL <= 0 {
		c.MatchTTL = defaultMatchTTL
	}
	return c
}

// RunStats summarizes one run for logging.
type RunStats struct {
	RunID        string
	People       int
	Projects     int
	Chunks       int
	FailedChunks int
	Matches      int
	ErrorRecords int
}

// Pipeline owns a store handle and a generator and executes matching runs.
type Pipeline struct {
	store     store.Store
	generator ai.Generator
	drainer   *queue.Drainer
	logger    *zap.Logger
	cfg       Config
	now       func() time.Time
}

func New(s store.Store, generator ai.Generator, logger *zap.Logger, cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	return &Pipeline{
		store:     s,
		generator: generator,
		drainer:   queue.NewDrainer(s, logger, cfg.DrainLimit),
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run executes one matching run. Model failures are contained per chunk;
// only store-level failures (draining, batch commits) surface as errors.
func (p *Pipeline) Run(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{RunID: uuid.NewString()}
	logger := p.logger.With(zap.String("run_id", stats.RunID))

	drained, err := p.drainer.Drain(ctx)
	if err != nil {
		return stats, err
	}

	stats.People = len(drained.People)
	stats.Projects = len(drained.Projects)

	if stats.People == 0 || stats.Projects == 0 {
		logger.Info("nothing to match",
			zap.Int("people", stats.People),
			zap.Int("projects", stats.Projects),
		)
		return stats, nil
	}

	chunks := matching.Partition(drained.People, p.cfg.ChunkSize)
	stats.Chunks = len(chunks)

	var runErr error
	for i, chunk := range chunks {
		chunkLogger := logger.With(zap.Int("chunk", i))
		committed, err := p.processChunk(ctx, chunkLogger, chunk, drained.Projects, stats)
		if err != nil {
			chunkLogger.Warn("chunk failed, continuing with next", zap.Error(err))
			stats.FailedChunks++
			if isPersistenceError(err) {
				runErr = errors.Join(runErr, err)
			}
			continue
		}
		stats.Matches += committed
	}

	logger.Info("matching run complete",
		zap.Int("people", stats.People),
		zap.Int("projects", stats.Projects),
		zap.Int("chunks", stats.Chunks),
		zap.Int("failed_chunks", stats.FailedChunks),
		zap.Int("matches", stats.Matches),
		zap.Int("error_records", stats.ErrorRecords),
	)

	return stats, runErr
}

func (p *Pipeline) processChunk(ctx context.Context, logger *zap.Logger, people []*model.Profile, projects []*model.Project, stats *RunStats) (int, error) {
	prompt, err := matching.BuildPrompt(people, projects, matching.PromptParams{
		MinScore:        p.cfg.MinScore,
		MaxSuggestions:  p.cfg.MaxSuggestions,
		MaxReasonLength: p.cfg.MaxReasonLength,
	})
	if err != nil {
		return 0, err
	}

	logger.Debug("model request",
		zap.Int("people", len(people)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, maxLogPreview)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return 0, err
	}

	logger.Debug("model response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, maxLogPreview)),
	)

	pairings, err := matching.ParsePairings(raw, logger)
	var parseErr *matching.ParseError
	if errors.As(err, &parseErr) {
		p.recordParseError(ctx, logger, parseErr)
		stats.ErrorRecords++
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if len(pairings) == 0 {
		logger.Info("model proposed no pairings for chunk")
		return 0, nil
	}

	return p.persistPairings(ctx, logger, pairings)
}

// recordParseError stores the raw response for offline diagnosis. The error
// records are append-only and never read back by the pipeline.
func (p *Pipeline) recordParseError(ctx context.Context, logger *zap.Logger, parseErr *matching.ParseError) {
	_, err := p.store.Create(ctx, model.ErrorsCollection, map[string]any{
		"category":  "model_response_parse",
		"message":   parseErr.Err.Error(),
		"raw":       parseErr.Raw,
		"createdAt": store.ServerTimestamp,
	})
	if err != nil {
		logger.Error("writing error record failed", zap.Error(err))
		return
	}
	logger.Warn("unparsable model response captured",
		zap.String("parse_error", parseErr.Err.Error()),
	)
}

package queue

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/store"
)

const defaultDrainLimit = 100

// Drained holds the documents resolved from one page of the job queue.
type Drained struct {
	People   []*model.Profile
	Projects []*model.Project
}

// Drainer reads pending job rows, resolves each referenced document and
// removes the row. Documents deleted between enqueue and drain are dropped
// without error.
type Drainer struct {
	store  store.Store
	logger *zap.Logger
	limit  int
}

func NewDrainer(s store.Store, logger *zap.Logger, limit int) *Drainer {
	if limit <= 0 {
		limit = defaultDrainLimit
	}
	return &Drainer{store: s, logger: logger, limit: limit}
}

// Drain processes up to the configured number of job rows. Each row is
// deleted once classified, so the queue gives at-most-once delivery: a
// failure later in the run does not put the job back.
func (d *Drainer) Drain(ctx context.Context) (*Drained, error) {
	jobs, err := d.store.List(ctx, model.JobsCollection, d.limit)
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}

	drained := &Drained{}
	if len(jobs) == 0 {
		d.logger.Debug("job queue is empty")
		return drained, nil
	}

	for _, job := range jobs {
		rawRef, _ := job.Data["docRef"].(string)
		ref, err := store.ParsePath(rawRef)
		if err != nil {
			d.logger.Warn("dropping malformed job row",
				zap.String("job_id", job.Ref.ID),
				zap.Error(err),
			)
			d.deleteJob(ctx, job.Ref)
			continue
		}

		doc, err := d.store.Get(ctx, ref)
		if errors.Is(err, store.ErrNotFound) {
			d.logger.Debug("referenced document is gone, dropping job",
				zap.String("doc_ref", rawRef),
			)
			d.deleteJob(ctx, job.Ref)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", rawRef, err)
		}

		switch ref.Collection {
		case model.ProfilesCollection:
			profile, err := model.DecodeProfile(ref.ID, doc.Data)
			if err != nil {
				d.logger.Warn("dropping undecodable profile", zap.String("doc_ref", rawRef), zap.Error(err))
			} else {
				drained.People = append(drained.People, profile)
			}
		case model.ProjectsCollection:
			project, err := model.DecodeProject(ref.ID, doc.Data)
			if err != nil {
				d.logger.Warn("dropping undecodable project", zap.String("doc_ref", rawRef), zap.Error(err))
			} else {
				drained.Projects = append(drained.Projects, project)
			}
		default:
			d.logger.Warn("job references an unwatched collection", zap.String("doc_ref", rawRef))
		}

		d.deleteJob(ctx, job.Ref)
	}

	d.logger.Info("job queue drained",
		zap.Int("jobs", len(jobs)),
		zap.Int("people", len(drained.People)),
		zap.Int("projects", len(drained.Projects)),
	)

	return drained, nil
}

// deleteJob removes a job row. A failed delete is only logged: the row will
// be picked up again next run and match writes are idempotent upserts.
func (d *Drainer) deleteJob(ctx context.Context, ref store.Ref) {
	if err := d.store.Delete(ctx, ref); err != nil {
		d.logger.Warn("deleting job row failed", zap.String("job_id", ref.ID), zap.Error(err))
	}
}

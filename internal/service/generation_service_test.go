package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
	"github.com/martinstiben/SGH-portal/pkg/jobs"
)

type fakeGenerationRepo struct {
	runs     map[string]*models.GenerationRun
	statuses []models.GenerationStatus
}

func newFakeGenerationRepo() *fakeGenerationRepo {
	return &fakeGenerationRepo{runs: map[string]*models.GenerationRun{}}
}

func (f *fakeGenerationRepo) Create(_ context.Context, run *models.GenerationRun) error {
	if run.ID == "" {
		run.ID = "run-1"
	}
	copied := *run
	f.runs[run.ID] = &copied
	return nil
}

func (f *fakeGenerationRepo) UpdateStatus(_ context.Context, id string, status models.GenerationStatus, total int, message string) error {
	run, ok := f.runs[id]
	if !ok {
		return errors.New("run not found")
	}
	run.Status = status
	run.TotalGenerated = total
	run.Message = message
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeGenerationRepo) History(_ context.Context, _ int) ([]models.GenerationRun, error) {
	var out []models.GenerationRun
	for _, r := range f.runs {
		out = append(out, *r)
	}
	return out, nil
}

type fakeGenerator struct {
	total int
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _ models.GenerationRun) (int, error) {
	return f.total, f.err
}

type captureQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *captureQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func TestGenerationServiceTrigger(t *testing.T) {
	repo := newFakeGenerationRepo()
	queue := &captureQueue{}
	svc := NewGenerationService(repo, &fakeGenerator{total: 12}, queue, nil, nil)

	run, err := svc.Trigger(context.Background(), "user-1", models.GenerationRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.GenerationPending, run.Status)
	assert.Equal(t, "user-1", run.ExecutedBy)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, run.ID, queue.jobs[0].ID)
}

func TestGenerationServiceTriggerDisabled(t *testing.T) {
	svc := NewGenerationService(newFakeGenerationRepo(), nil, nil, nil, nil)

	_, err := svc.Trigger(context.Background(), "user-1", models.GenerationRequest{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
}

func TestGenerationServiceHandleJobSuccess(t *testing.T) {
	repo := newFakeGenerationRepo()
	queue := &captureQueue{}
	svc := NewGenerationService(repo, &fakeGenerator{total: 8}, queue, nil, nil)

	run, err := svc.Trigger(context.Background(), "user-1", models.GenerationRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	assert.Equal(t, []models.GenerationStatus{models.GenerationRunning, models.GenerationSuccess}, repo.statuses)
	assert.Equal(t, 8, repo.runs[run.ID].TotalGenerated)
}

func TestGenerationServiceHandleJobFailure(t *testing.T) {
	repo := newFakeGenerationRepo()
	queue := &captureQueue{}
	svc := NewGenerationService(repo, &fakeGenerator{err: errors.New("solver exploded")}, queue, nil, nil)

	run, err := svc.Trigger(context.Background(), "user-1", models.GenerationRequest{})
	require.NoError(t, err)

	// A generator failure is terminal for the run, not a queue retry.
	require.NoError(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	assert.Equal(t, models.GenerationFailed, repo.runs[run.ID].Status)
	assert.Contains(t, repo.runs[run.ID].Message, "solver exploded")
}

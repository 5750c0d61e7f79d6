package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/shared"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Queue: shared.QueueCheckout}, nil
}

func TestEnqueueReconcile(t *testing.T) {
	fe := &fakeEnqueuer{}
	c := NewClient(fe, 5)
	id := uuid.New()

	require.NoError(t, c.EnqueueReconcile(context.Background(), id))
	require.Len(t, fe.tasks, 1)
	assert.Equal(t, shared.TypeCheckoutReconcile, fe.tasks[0].Type())

	var p ReconcilePayload
	require.NoError(t, json.Unmarshal(fe.tasks[0].Payload(), &p))
	assert.Equal(t, id.String(), p.SubmissionID)
}

func TestEnqueueReconcile_DuplicateIgnored(t *testing.T) {
	c := NewClient(&fakeEnqueuer{err: asynq.ErrTaskIDConflict}, 5)
	assert.NoError(t, c.EnqueueReconcile(context.Background(), uuid.New()))

	c = NewClient(&fakeEnqueuer{err: errors.New("redis down")}, 5)
	assert.Error(t, c.EnqueueReconcile(context.Background(), uuid.New()))
}

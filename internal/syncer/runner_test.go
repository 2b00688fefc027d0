package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scoresync/internal/models"
)

func okItem(id, action string) Item {
	return Item{ExternalID: id, Apply: func(context.Context, bool) (string, error) {
		return action, nil
	}}
}

func failItem(id, msg string) Item {
	return Item{ExternalID: id, Apply: func(context.Context, bool) (string, error) {
		return models.ActionFailed, errors.New(msg)
	}}
}

func TestRunnerPartialFailureIsSuccess(t *testing.T) {
	store := newFakeBatchStore()
	r := NewRunner(store, zap.NewNop())

	res, err := r.Run(context.Background(), "teams", []Item{
		okItem("1", models.ActionInserted),
		failItem("2", "write rejected"),
		okItem("3", models.ActionUpdated),
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.OK)
	assert.Equal(t, 1, res.Fail)
	assert.Equal(t, 3, res.Total)

	batch := store.byKind("teams")
	require.NotNil(t, batch)
	assert.Equal(t, models.JobStatusSuccess, batch.Status)
	assert.Equal(t, "write rejected", batch.LastError)

	// Counters reconcile exactly with the item rows.
	items := store.itemsFor(batch.ID)
	require.Len(t, items, batch.ItemsTotal)
	assert.Equal(t, batch.ItemsTotal, batch.ItemsSuccess+batch.ItemsFailed)
	assert.Equal(t, models.ActionFailed, items[1].Action)
	assert.Equal(t, "2", items[1].ExternalID)
}

func TestRunnerAllItemsFailedIsFailed(t *testing.T) {
	store := newFakeBatchStore()
	r := NewRunner(store, zap.NewNop())

	res, err := r.Run(context.Background(), "teams", []Item{
		failItem("1", "boom"),
		failItem("2", "boom"),
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, res.OK)
	assert.Equal(t, 2, res.Fail)

	batch := store.byKind("teams")
	require.NotNil(t, batch)
	assert.Equal(t, models.JobStatusFailed, batch.Status)
}

func TestRunnerEmptyBatchIsSuccess(t *testing.T) {
	store := newFakeBatchStore()
	r := NewRunner(store, zap.NewNop())

	res, err := r.Run(context.Background(), "fixtures", nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)

	batch := store.byKind("fixtures")
	require.NotNil(t, batch)
	assert.Equal(t, models.JobStatusSuccess, batch.Status)
}

func TestRunnerDryRunFlagPropagates(t *testing.T) {
	store := newFakeBatchStore()
	r := NewRunner(store, zap.NewNop())

	var sawDryRun bool
	items := []Item{{ExternalID: "1", Apply: func(_ context.Context, dryRun bool) (string, error) {
		sawDryRun = dryRun
		return models.ActionInserted, nil
	}}}

	_, err := r.Run(context.Background(), "season", items, Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, sawDryRun)

	batch := store.byKind("season")
	require.NotNil(t, batch)
	assert.True(t, batch.DryRun)
}

func TestRunnerItemErrorDoesNotAbortRest(t *testing.T) {
	store := newFakeBatchStore()
	r := NewRunner(store, zap.NewNop())

	var applied []string
	mk := func(id string, fail bool) Item {
		return Item{ExternalID: id, Apply: func(context.Context, bool) (string, error) {
			applied = append(applied, id)
			if fail {
				return models.ActionFailed, errors.New("nope")
			}
			return models.ActionUpdated, nil
		}}
	}

	_, err := r.Run(context.Background(), "teams", []Item{mk("1", true), mk("2", false), mk("3", false)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, applied)
}

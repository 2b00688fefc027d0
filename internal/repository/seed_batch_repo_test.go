package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoresync/internal/models"
)

func TestSeedBatchCreateAssignsPublicID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeedBatchRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `seed_batches`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	batch, err := repo.Create("teams", false, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, batch.BatchID)
	assert.Equal(t, models.JobStatusQueued, batch.Status)
	assert.Equal(t, 2, batch.ItemsTotal)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedBatchAddItemWritesRowAndCounterTogether(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeedBatchRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `batch_items`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `seed_batches` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AddItem(7, "t1", models.ActionInserted, ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedBatchAddItemRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeedBatchRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `batch_items`").
		WillReturnError(errors.New("table full"))
	mock.ExpectRollback()

	err := repo.AddItem(7, "t1", models.ActionInserted, "")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedBatchAddTotalGrowsTotal(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeedBatchRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `seed_batches` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.AddTotal(7, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

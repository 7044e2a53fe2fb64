package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/JesuSe7e/api-envio-ftp/internal/adapters/repository/postgres"
	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlUnitOfWork_Execute(t *testing.T) {

	//Arrange
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	uow := postgres.NewUnitOfWork(dbConnection)
	clientRepo := postgres.NewSqlClientRepository(dbConnection)
	archiveRepo := postgres.NewSqlArchiveLogRepository(dbConnection)
	at := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)

	t.Run("Should commit when no error", func(t *testing.T) {
		truncate()
		client := postgres.SeedClient(t, dbConnection, "tok-1")

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			if err := u.ArchiveLogRepo().Create(ctx, newRecord(client.ID, "backup_1.accdb", at)); err != nil {
				return err
			}
			return u.ClientRepo().UpdateLastBackup(ctx, client.ID, at)
		})

		//assert
		require.NoError(t, err)
		records, err := archiveRepo.ListByClient(ctx, client.ID, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		found, err := clientRepo.FindByToken(ctx, "tok-1")
		require.NoError(t, err)
		require.NotNil(t, found.LastBackupAt)
	})

	t.Run("Should rollback when error occurs", func(t *testing.T) {
		truncate()
		client := postgres.SeedClient(t, dbConnection, "tok-1")

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			_ = u.ArchiveLogRepo().Create(ctx, newRecord(client.ID, "backup_1.accdb", at))
			return assert.AnError
		})

		//assert
		require.ErrorIs(t, err, assert.AnError)
		records, err := archiveRepo.ListByClient(ctx, client.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

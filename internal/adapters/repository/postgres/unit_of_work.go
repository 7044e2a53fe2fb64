package postgres

import (
	"context"
	"database/sql"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) ClientRepo() port.ClientRepository {
	if u.tx != nil {
		return NewSqlClientRepository(u.tx)
	}
	return NewSqlClientRepository(u.db)
}

func (u *sqlUnitOfWork) ArchiveLogRepo() port.ArchiveLogRepository {
	if u.tx != nil {
		return NewSqlArchiveLogRepository(u.tx)
	}
	return NewSqlArchiveLogRepository(u.db)
}

func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	uowWithTx := &sqlUnitOfWork{db: u.db, tx: tx}

	if err := fn(uowWithTx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

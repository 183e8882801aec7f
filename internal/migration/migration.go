package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	attachmentdomain "github.com/smallbiznis/tradeledger/internal/attachment/domain"
	auditdomain "github.com/smallbiznis/tradeledger/internal/audit/domain"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"github.com/smallbiznis/tradeledger/pkg/db"
	"gorm.io/gorm"
)

// Models lists every table owned by the ledger, in dependency order.
func Models() []any {
	return []any{
		&taxdomain.ExpenseType{},
		&expensedomain.ExpenseInvoice{},
		&expensedomain.ExpenseLine{},
		&attachmentdomain.Attachment{},
		&auditdomain.AuditEntry{},
	}
}

// Run brings the schema up to date. Postgres uses the versioned SQL
// migrations; the embedded and MySQL stores are migrated from the models.
func Run(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if dbType == db.TypePostgres {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunPostgres(sqlDB)
	}
	return AutoMigrate(conn)
}

func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunPostgres(sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}

package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cattery/internal/config"
	"cattery/internal/logger"
	"cattery/internal/models"
)

// MigrationsURL is where golang-migrate reads the SQL migrations from.
const MigrationsURL = "file://migrations"

// Manager handles database operations
type Manager struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewManager opens the database selected by cfg.DBDriver.
func NewManager(cfg *config.Config) (*Manager, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(dial, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if cfg.DBDriver == DriverSQLite {
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Manager{db: db, cfg: cfg}, nil
}

// Prepare brings the schema up to date at startup. Postgres applies the SQL
// migrations; sqlite, or any driver with DB_AUTO_MIGRATE=true, runs gorm's
// AutoMigrate. It finishes by checking that every table exists.
func (m *Manager) Prepare() error {
	if m.cfg.DBDriver == DriverPostgres {
		if err := m.RunMigrations(); err != nil {
			return err
		}
	}
	if m.cfg.DBDriver == DriverSQLite || m.cfg.DBAutoMigrate {
		if err := m.AutoMigrate(); err != nil {
			return err
		}
	}
	return m.EnsureTables()
}

// RunMigrations applies pending SQL migrations from the migrations/ directory.
func (m *Manager) RunMigrations() error {
	if m.cfg.DBDriver != DriverPostgres {
		return fmt.Errorf("SQL migrations are only available for %s", DriverPostgres)
	}
	logger.Get().Info("Running database migrations...")

	mig, err := migrate.New(MigrationsURL, PostgresURL(m.cfg))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// AutoMigrate creates or alters tables to match the models.
func (m *Manager) AutoMigrate() error {
	logger.Get().Infow("Synchronizing schema from models", "driver", m.cfg.DBDriver)
	if err := m.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}

// EnsureTables fails when a model's table is missing, naming every missing
// table.
func (m *Manager) EnsureTables() error {
	var missing []string
	migrator := m.db.Migrator()
	for _, model := range models.All() {
		if migrator.HasTable(model) {
			continue
		}
		stmt := &gorm.Statement{DB: m.db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("failed to parse model: %w", err)
		}
		missing = append(missing, stmt.Schema.Table)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables: %s (run the migrations first)", strings.Join(missing, ", "))
	}
	return nil
}

// Ping checks that the database answers.
func (m *Manager) Ping() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

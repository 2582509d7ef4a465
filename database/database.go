// database.go - Handles database connection and setup

package database // Declares the package name

import ( // Import required packages
	"context"                  // Request-scoped queries
	"errors"                   // errors.As on driver errors
	"fmt"                      // Error wrapping
	"go-voting-backend/auth"   // Password hashing for the admin
	"go-voting-backend/config" // Database and admin config
	"go-voting-backend/models" // Models to migrate
	"log/slog"                 // Structured logging
	"os"                       // Directory creation
	"path/filepath"            // DSN path handling
	"strings"                  // DSN parameters

	"github.com/jackc/pgx/v5/pgconn" // Postgres error codes
	"github.com/mattn/go-sqlite3"    // SQLite error codes
	"gorm.io/driver/postgres"        // Postgres driver for GORM
	"gorm.io/driver/sqlite"          // SQLite driver for GORM
	"gorm.io/gorm"                   // ORM library
	"gorm.io/gorm/logger"            // GORM query logging
)

// Connect opens the configured database and migrates the schema.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dsn, err := sqliteDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{ // Open database connection
		TranslateError: true, // Driver errors -> gorm.ErrDuplicatedKey etc.
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil { // Auto-migrate all models
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := db.Exec(singleAdminIndex).Error; err != nil {
		return nil, fmt.Errorf("create admin index: %w", err)
	}
	return db, nil
}

// singleAdminIndex allows at most one row with role admin. Partial indexes
// are supported by both sqlite and postgres.
const singleAdminIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_single_admin ON users (role) WHERE role = 'admin'`

// sqliteDSN creates the database directory and adds default parameters.
func sqliteDSN(dsn string) (string, error) {
	if dsn == "" {
		dsn = "data.db"
	}
	if !strings.Contains(dsn, ":memory:") && !strings.Contains(dsn, "mode=memory") {
		path := strings.TrimPrefix(strings.SplitN(dsn, "?", 2)[0], "file:")
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return "", err
		}
	}

	defaults := []struct{ key, value string }{
		{"_busy_timeout", "5000"},
		{"_foreign_keys", "on"},
		{"_txlock", "immediate"}, // writers take the lock at BEGIN
	}
	for _, p := range defaults {
		if strings.Contains(dsn, p.key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.key + "=" + p.value
	}
	return dsn, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// EnsureAdmin creates the configured admin user if none exists yet.
// Nothing happens unless both national ID and password are configured.
func EnsureAdmin(ctx context.Context, db *gorm.DB, cfg config.AuthConfig) error {
	if cfg.AdminNationalID == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword) // Hash admin password
	if err != nil {
		return err
	}
	admin := models.User{
		Name:       cfg.AdminName,
		NationalID: cfg.AdminNationalID,
		Password:   hash,
		Role:       models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil { // Save admin to DB
		return fmt.Errorf("create admin: %w", err)
	}
	slog.InfoContext(ctx, "admin_created", "user_id", admin.ID)
	return nil
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/snowflakedb/gosnowflake"

	"tabload/pkg/errors"
)

// Service provides the destination-store operations the ingestion core
// needs: existence probes, DDL execution, and bulk writes. The run's single
// thread owns the connection; DDL and load phases never overlap.
type Service struct {
	db        *sql.DB
	config    Config
	connected bool
}

// Config holds Snowflake connection configuration
type Config struct {
	Account   string
	Username  string
	Password  string
	Database  string
	Schema    string
	Warehouse string
	Role      string
	// Timeout bounds each destination call; zero means unbounded, since
	// multi-gigabyte loads can legitimately run for hours
	Timeout time.Duration
}

// NewService creates a new Snowflake service
func NewService(config Config) *Service {
	return &Service{config: config}
}

// NewServiceFromDB wraps an existing database handle; used by tests
func NewServiceFromDB(db *sql.DB, config Config) *Service {
	return &Service{db: db, config: config, connected: true}
}

// Connect establishes a connection to Snowflake
func (s *Service) Connect() error {
	if s.connected {
		return nil
	}

	dsn := fmt.Sprintf("%s:%s@%s/%s/%s?warehouse=%s&role=%s",
		s.config.Username,
		s.config.Password,
		s.config.Account,
		s.config.Database,
		s.config.Schema,
		s.config.Warehouse,
		s.config.Role,
	)

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return errors.ConnectionError("Failed to open Snowflake connection", err).
			WithContext("account", s.config.Account).
			WithContext("warehouse", s.config.Warehouse)
	}

	// Single-threaded batch pipeline; one connection is all a run uses
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()

		if strings.Contains(err.Error(), "authentication") || strings.Contains(err.Error(), "Incorrect username or password") {
			return errors.New(errors.ErrCodeAuthenticationFailed, "Authentication failed").
				WithComponent("snowflake").
				WithContext("user", s.config.Username).
				WithSuggestions(
					"Verify your username and password",
					"Check if your account is locked",
					"Ensure MFA is properly configured if required",
				)
		}

		return errors.ConnectionError("Failed to connect to Snowflake", err).
			WithContext("account", s.config.Account)
	}

	s.db = db
	s.connected = true
	return nil
}

// Close closes the database connection
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	s.connected = false
	return nil
}

// Ping verifies the connection is alive
func (s *Service) Ping(ctx context.Context) error {
	if !s.connected {
		return errors.New(errors.ErrCodeDestinationUnreachable, "Not connected to Snowflake").
			WithComponent("snowflake")
	}
	return s.db.PingContext(ctx)
}

// TableExists checks the destination catalog for a named table
func (s *Service) TableExists(ctx context.Context, database, schema, table string) (bool, error) {
	if !s.connected {
		return false, errors.New(errors.ErrCodeDestinationUnreachable, "Not connected to Snowflake").
			WithComponent("snowflake")
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	query := "SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = UPPER(?) AND TABLE_NAME = UPPER(?)"
	args := []interface{}{schema, table}
	if database != "" {
		query = fmt.Sprintf("SELECT COUNT(*) FROM %s.INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = UPPER(?) AND TABLE_NAME = UPPER(?)", database)
	}

	var count int
	if err := s.db.QueryRowContext(opCtx, query, args...).Scan(&count); err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCatalogProbe, "Catalog probe failed").
			WithComponent("snowflake").
			WithContext("table", table)
	}

	return count > 0, nil
}

// ShowTableLike is the fallback existence probe for roles that cannot read
// INFORMATION_SCHEMA
func (s *Service) ShowTableLike(ctx context.Context, database, schema, table string) (bool, error) {
	if !s.connected {
		return false, errors.New(errors.ErrCodeDestinationUnreachable, "Not connected to Snowflake").
			WithComponent("snowflake")
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	query := fmt.Sprintf("SHOW TABLES LIKE '%s' IN SCHEMA %s", escapeLiteral(table), qualifySchema(database, schema))
	rows, err := s.db.QueryContext(opCtx, query)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCatalogProbe, "SHOW TABLES probe failed").
			WithComponent("snowflake").
			WithContext("table", table)
	}
	defer rows.Close()

	exists := rows.Next()
	return exists, rows.Err()
}

// ExecuteDDL runs a single DDL statement against the destination
func (s *Service) ExecuteDDL(ctx context.Context, statement string) error {
	if !s.connected {
		return errors.New(errors.ErrCodeDestinationUnreachable, "Not connected to Snowflake").
			WithComponent("snowflake")
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(opCtx, statement); err != nil {
		return errors.DdlError("DDL statement rejected", statement, err)
	}
	return nil
}

// opContext applies the configured per-operation timeout; zero leaves the
// caller's context unbounded
func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.config.Timeout)
}

func qualifySchema(database, schema string) string {
	if database == "" {
		return schema
	}
	return database + "." + schema
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// ValidateConfig validates the Snowflake configuration
func ValidateConfig(config Config) error {
	if config.Account == "" {
		return fmt.Errorf("account is required")
	}
	if config.Username == "" {
		return fmt.Errorf("username is required")
	}
	if config.Password == "" {
		return fmt.Errorf("password is required")
	}
	if config.Warehouse == "" {
		return fmt.Errorf("warehouse is required")
	}
	return nil
}

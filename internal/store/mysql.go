package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

// MySQLStore persists services and options in MySQL.
type MySQLStore struct {
	db *sql.DB
}

// OpenMySQL connects with conservative pool defaults and verifies the
// connection before returning.
func OpenMySQL(ctx context.Context, dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

// InitSchema creates both tables if they do not exist.
func (s *MySQLStore) InitSchema(ctx context.Context) error {
	const services = `
CREATE TABLE IF NOT EXISTS services (
    service_id     BIGINT AUTO_INCREMENT PRIMARY KEY,
    game_id        BIGINT NOT NULL,
    name           VARCHAR(255) NOT NULL,
    description    TEXT,
    price_per_unit DECIMAL(10,2) NOT NULL DEFAULT 0.00,
    sale_price     DECIMAL(10,2) NULL,
    icon_url       VARCHAR(1024),
    category       VARCHAR(255),
    created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_services_game_name (game_id, name)
)`
	const options = `
CREATE TABLE IF NOT EXISTS service_options (
    option_id        BIGINT AUTO_INCREMENT PRIMARY KEY,
    service_id       BIGINT NOT NULL,
    parent_option_id BIGINT NULL,
    option_type      VARCHAR(32) NOT NULL,
    option_name      VARCHAR(255) NOT NULL,
    option_label     VARCHAR(255) NOT NULL,
    option_value     VARCHAR(255) NULL,
    price_modifier   DECIMAL(10,2) NOT NULL DEFAULT 0.00,
    min_value        INT NULL,
    max_value        INT NULL,
    default_value    VARCHAR(255) NULL,
    is_required      TINYINT(1) NOT NULL DEFAULT 0,
    display_order    INT NOT NULL DEFAULT 0,
    is_active        TINYINT(1) NOT NULL DEFAULT 1,
    created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_options_service (service_id),
    KEY idx_options_parent (parent_option_id)
)`
	if _, err := s.db.ExecContext(ctx, services); err != nil {
		return fmt.Errorf("create services table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, options); err != nil {
		return fmt.Errorf("create service_options table: %w", err)
	}
	return nil
}

// WithinTx runs fn inside one SQL transaction.
func (s *MySQLStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&mysqlTx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

type mysqlTx struct {
	tx *sql.Tx
}

func (t *mysqlTx) FindServiceByName(ctx context.Context, gameID int64, name string) (int64, error) {
	const q = `SELECT service_id FROM services WHERE game_id = ? AND name = ? LIMIT 1`
	var id int64
	err := t.tx.QueryRowContext(ctx, q, gameID, name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrServiceNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("find service %q: %w", name, err)
	}
	return id, nil
}

func (t *mysqlTx) InsertService(ctx context.Context, svc models.Service) (int64, error) {
	const q = `INSERT INTO services
		(game_id, name, description, price_per_unit, sale_price, icon_url, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	var sale any
	if svc.SalePrice != nil {
		sale = svc.SalePrice.StringFixed(2)
	}
	res, err := t.tx.ExecContext(ctx, q,
		svc.GameID, svc.Name, svc.Description,
		svc.PricePerUnit.StringFixed(2), sale, svc.IconURL, svc.Category)
	if err != nil {
		return 0, fmt.Errorf("insert service %q: %w", svc.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("service insert id: %w", err)
	}
	return id, nil
}

func (t *mysqlTx) InsertOption(ctx context.Context, row models.OptionRow) (int64, error) {
	const q = `INSERT INTO service_options
		(service_id, parent_option_id, option_type, option_name, option_label,
		 option_value, price_modifier, min_value, max_value, default_value,
		 is_required, display_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		row.ServiceID, row.ParentOptionID, row.OptionType, row.OptionName,
		row.OptionLabel, row.OptionValue, row.PriceModifier.StringFixed(2),
		row.MinValue, row.MaxValue, row.DefaultValue,
		row.IsRequired, row.DisplayOrder, row.IsActive,
		row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert option %q: %w", row.OptionName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("option insert id: %w", err)
	}
	return id, nil
}

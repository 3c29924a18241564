// Package applylog keeps an audit trail of pack applications in a local
// SQLite database, separate from the tenant data in Postgres.
package applylog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Status of a recorded pack application.
type Status string

const (
	StatusApplied Status = "APPLIED"
	StatusFailed  Status = "FAILED"
)

// ApplyRecord represents one pack application attempt against a tenant.
type ApplyRecord struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	PackKey      string          `gorm:"type:varchar(100);not null"`
	PackVersion  string          `gorm:"type:varchar(50);not null"`
	Status       Status          `gorm:"type:varchar(20);not null"`
	RecordCounts json.RawMessage `gorm:"type:json"`
	ErrorDetail  string          `gorm:"type:text"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for ApplyRecord
func (ApplyRecord) TableName() string {
	return "pack_applications"
}

// Store handles database operations for pack application records
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store with SQLite database
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = "pack_applications.db"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&ApplyRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// NewInMemoryStore creates a Store with in-memory SQLite database (useful for testing)
func NewInMemoryStore() (*Store, error) {
	return NewStore(":memory:")
}

// Create inserts a new pack application record
func (s *Store) Create(record *ApplyRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return s.db.Create(record).Error
}

// GetByID retrieves a pack application record by its ID
func (s *Store) GetByID(id uuid.UUID) (*ApplyRecord, error) {
	var record ApplyRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByTenant retrieves all pack application records for a tenant, newest first
func (s *Store) GetByTenant(tenantID uuid.UUID) ([]ApplyRecord, error) {
	var records []ApplyRecord
	if err := s.db.Where("tenant_id = ?", tenantID).Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetAll retrieves all pack application records
func (s *Store) GetAll() ([]ApplyRecord, error) {
	var records []ApplyRecord
	if err := s.db.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

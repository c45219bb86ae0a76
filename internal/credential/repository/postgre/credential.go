package postgre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"saas-action-bot/internal/credential/repository"
	"saas-action-bot/internal/model"
)

// TenantCredential is the table schema for tenant OAuth grants.
type TenantCredential struct {
	TenantID     string `gorm:"primaryKey;size:128"`
	AccessToken  string `gorm:"type:text"`
	RefreshToken string `gorm:"type:text"`
	TokenType    string `gorm:"size:32"`
	Expiry       time.Time
	APIBaseURL   string `gorm:"size:512"`
	TokenURL     string `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the GORM default.
func (TenantCredential) TableName() string { return "tenant_credentials" }

type implRepository struct {
	db *gorm.DB
}

// New creates a GORM-backed credential repository.
func New(db *gorm.DB) repository.Repository {
	return &implRepository{db: db}
}

// Migrate creates or updates the tenant_credentials table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TenantCredential{})
}

func (r *implRepository) Get(ctx context.Context, tenantID string) (model.TenantCredential, error) {
	var row TenantCredential
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TenantCredential{}, repository.ErrNotFound
	}
	if err != nil {
		return model.TenantCredential{}, fmt.Errorf("get credential %s: %w", tenantID, err)
	}
	return model.TenantCredential(row), nil
}

func (r *implRepository) Upsert(ctx context.Context, cred model.TenantCredential) error {
	row := TenantCredential(cred)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "token_type", "expiry", "api_base_url", "token_url", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert credential %s: %w", cred.TenantID, err)
	}
	return nil
}

package postgre

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"saas-action-bot/internal/catalog/repository"
	"saas-action-bot/internal/model"
)

// Endpoint is the table schema for endpoint documents.
type Endpoint struct {
	TenantID    string `gorm:"primaryKey;size:128"`
	EndpointID  string `gorm:"primaryKey;size:256"`
	Method      string `gorm:"size:16;not null"`
	Path        string `gorm:"not null"`
	Summary     string
	Description string
	Parameters  []model.EndpointParam `gorm:"serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the GORM default.
func (Endpoint) TableName() string { return "endpoints" }

type implRepository struct {
	db *gorm.DB
}

// New creates a GORM-backed endpoint document repository.
func New(db *gorm.DB) repository.EndpointRepository {
	return &implRepository{db: db}
}

// Migrate creates or updates the endpoints table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Endpoint{})
}

func (r *implRepository) Get(ctx context.Context, tenantID, endpointID string) (model.Endpoint, error) {
	var row Endpoint
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND endpoint_id = ?", tenantID, endpointID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Endpoint{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Endpoint{}, fmt.Errorf("get endpoint %s/%s: %w", tenantID, endpointID, err)
	}
	return toModel(row), nil
}

func (r *implRepository) Save(ctx context.Context, ep model.Endpoint) error {
	row := Endpoint{
		TenantID:    ep.TenantID,
		EndpointID:  ep.ID,
		Method:      strings.ToUpper(ep.Method),
		Path:        ep.Path,
		Summary:     ep.Summary,
		Description: ep.Description,
		Parameters:  ep.Parameters,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "endpoint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"method", "path", "summary", "description", "parameters", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save endpoint %s/%s: %w", ep.TenantID, ep.ID, err)
	}
	return nil
}

func (r *implRepository) List(ctx context.Context, tenantID string) ([]model.Endpoint, error) {
	var rows []Endpoint
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("endpoint_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list endpoints %s: %w", tenantID, err)
	}
	out := make([]model.Endpoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, toModel(row))
	}
	return out, nil
}

func toModel(row Endpoint) model.Endpoint {
	return model.Endpoint{
		ID:          row.EndpointID,
		TenantID:    row.TenantID,
		Method:      row.Method,
		Path:        row.Path,
		Summary:     row.Summary,
		Description: row.Description,
		Parameters:  row.Parameters,
	}
}

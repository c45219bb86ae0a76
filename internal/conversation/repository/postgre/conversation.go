package postgre

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"saas-action-bot/internal/conversation/repository"
	"saas-action-bot/internal/model"
)

// Conversation is the table schema for conversation records.
type Conversation struct {
	TenantID           string               `gorm:"primaryKey;size:128"`
	VisitorID          string               `gorm:"primaryKey;size:128"`
	History            []model.HistoryEntry `gorm:"serializer:json"`
	Visitor            model.VisitorMeta    `gorm:"serializer:json"`
	ClarificationCount int                  `gorm:"not null;default:0"`
	ResolvedParams     map[string]string    `gorm:"serializer:json"`
	Pending            *model.PendingResult `gorm:"serializer:json"`
	ReplyOverride      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides the GORM default.
func (Conversation) TableName() string { return "conversations" }

type implRepository struct {
	db *gorm.DB
}

// New creates a GORM-backed conversation repository.
func New(db *gorm.DB) repository.Repository {
	return &implRepository{db: db}
}

// Migrate creates or updates the conversations table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Conversation{})
}

func (r *implRepository) Get(ctx context.Context, key model.ConversationKey) (model.Conversation, error) {
	var row Conversation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND visitor_id = ?", key.TenantID, key.VisitorID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Conversation{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("get conversation %s: %w", key, err)
	}
	return toModel(row), nil
}

func (r *implRepository) Upsert(ctx context.Context, conv model.Conversation) error {
	row := fromModel(conv)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "visitor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"history", "visitor", "clarification_count", "resolved_params", "pending", "reply_override", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert conversation %s: %w", conv.Key, err)
	}
	return nil
}

func toModel(row Conversation) model.Conversation {
	params := row.ResolvedParams
	if params == nil {
		params = map[string]string{}
	}
	return model.Conversation{
		Key:                model.ConversationKey{TenantID: row.TenantID, VisitorID: row.VisitorID},
		History:            row.History,
		Visitor:            row.Visitor,
		ClarificationCount: row.ClarificationCount,
		ResolvedParams:     params,
		Pending:            row.Pending,
		ReplyOverride:      row.ReplyOverride,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func fromModel(c model.Conversation) Conversation {
	return Conversation{
		TenantID:           c.Key.TenantID,
		VisitorID:          c.Key.VisitorID,
		History:            c.History,
		Visitor:            c.Visitor,
		ClarificationCount: c.ClarificationCount,
		ResolvedParams:     c.ResolvedParams,
		Pending:            c.Pending,
		ReplyOverride:      c.ReplyOverride,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

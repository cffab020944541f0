package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"foreman/contexts/identity-access/directory-service/domain/entities"
	domainerrors "foreman/contexts/identity-access/directory-service/domain/errors"
	"foreman/contexts/identity-access/directory-service/ports"
	"foreman/internal/shared/identity"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateTenant(ctx context.Context, tenant entities.Tenant) error {
	row := tenantModelFromEntity(tenant)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetTenant(ctx context.Context, tenantID string) (entities.Tenant, error) {
	var row tenantModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", strings.TrimSpace(tenantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Tenant{}, domainerrors.ErrTenantNotFound
		}
		return entities.Tenant{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTenants(ctx context.Context) ([]entities.Tenant, error) {
	var rows []tenantModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Tenant, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListUsers(ctx context.Context, filter ports.UserFilter) ([]entities.User, error) {
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("tenant_id = ?", filter.TenantID)
	if filter.ExcludeUserID != "" {
		tx = tx.Where("user_id <> ?", filter.ExcludeUserID)
	}
	if filter.ExcludeGlobalAdmins {
		tx = tx.Where("global_role <> ?", string(identity.GlobalRoleAdmin))
	}

	var rows []userModel
	if err := tx.Order("email ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type tenantModel struct {
	TenantID  string    `gorm:"column:tenant_id;primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (tenantModel) TableName() string { return "tenants" }

func (m tenantModel) toEntity() entities.Tenant {
	return entities.Tenant{
		ID:        m.TenantID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

func tenantModelFromEntity(tenant entities.Tenant) tenantModel {
	return tenantModel{
		TenantID:  tenant.ID,
		Name:      tenant.Name,
		CreatedAt: tenant.CreatedAt.UTC(),
	}
}

type userModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	GlobalRole   string    `gorm:"column:global_role"`
	TenantID     string    `gorm:"column:tenant_id;index"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toEntity() entities.User {
	return entities.User{
		ID:           m.UserID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		GlobalRole:   identity.GlobalRole(m.GlobalRole),
		TenantID:     m.TenantID,
		CreatedAt:    m.CreatedAt,
	}
}

package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"foreman/contexts/project-management/project-service/domain/entities"
	domainerrors "foreman/contexts/project-management/project-service/domain/errors"
	"foreman/contexts/project-management/project-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

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

func (r *Repository) CreateProject(ctx context.Context, project entities.Project) error {
	row := projectModelFromEntity(project)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetProject(ctx context.Context, projectID string) (entities.Project, error) {
	var row projectModel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", strings.TrimSpace(projectID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Project{}, domainerrors.ErrProjectNotFound
		}
		return entities.Project{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListProjects(ctx context.Context, filter ports.ProjectFilter) (ports.ProjectPage, error) {
	tx := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("tenant_id = ?", filter.TenantID)
	if filter.Search != "" {
		tx = tx.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ports.ProjectPage{}, err
	}

	var rows []projectModel
	offset := (filter.Page - 1) * filter.Limit
	err := tx.Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&rows).
		Error
	if err != nil {
		return ports.ProjectPage{}, err
	}

	items := make([]entities.Project, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return ports.ProjectPage{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		HasNext:    filter.Page < totalPages,
		HasPrev:    filter.Page > 1 && filter.Page <= totalPages+1,
	}, nil
}

func (r *Repository) UpdateProject(ctx context.Context, project entities.Project) error {
	result := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("project_id = ?", project.ID).
		Updates(map[string]any{
			"name":        project.Name,
			"description": project.Description,
			"updated_at":  project.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProjectNotFound
	}
	return nil
}

// DeleteProject deletes the project and its memberships in one transaction.
// The membership table also carries ON DELETE CASCADE on its project foreign
// key, so the cascade holds even for writes racing this transaction.
func (r *Repository) DeleteProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&membershipModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("project_id = ?", projectID).Delete(&projectModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrProjectNotFound
		}
		return nil
	})
}

func (r *Repository) GetMembership(ctx context.Context, projectID, userID string) (entities.Membership, error) {
	var row membershipModel
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Membership{}, domainerrors.ErrMembershipNotFound
		}
		return entities.Membership{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) HasOwnerMembership(ctx context.Context, tenantID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Joins("JOIN projects ON projects.project_id = project_memberships.project_id").
		Where("project_memberships.user_id = ?", userID).
		Where("project_memberships.role = ?", string(entities.RoleOwner)).
		Where("projects.tenant_id = ?", tenantID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListMembers(ctx context.Context, projectID string) ([]ports.MemberView, error) {
	var rows []memberViewRow
	err := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Select("project_memberships.membership_id, project_memberships.user_id, users.email, project_memberships.role, project_memberships.created_at").
		Joins("JOIN users ON users.user_id = project_memberships.user_id").
		Where("project_memberships.project_id = ?", projectID).
		Order("project_memberships.created_at ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	members := make([]ports.MemberView, 0, len(rows))
	for _, row := range rows {
		members = append(members, ports.MemberView{
			MembershipID: row.MembershipID,
			UserID:       row.UserID,
			Email:        row.Email,
			Role:         entities.Role(row.Role),
			CreatedAt:    row.CreatedAt,
		})
	}
	return members, nil
}

// CreateMembership inserts the join row. The composite unique index on
// (project_id, user_id) is what makes the duplicate check safe under
// concurrent assigns; a violation surfaces as ErrAlreadyAssigned.
func (r *Repository) CreateMembership(ctx context.Context, membership entities.Membership) error {
	row := membershipModelFromEntity(membership)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyAssigned
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateMembershipRole(ctx context.Context, projectID, userID string, role entities.Role) error {
	result := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", string(role))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMembershipNotFound
	}
	return nil
}

func (r *Repository) DeleteMembership(ctx context.Context, projectID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&membershipModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMembershipNotFound
	}
	return nil
}

// GetUserRef reads the identity provider's user table; this context never
// writes it.
func (r *Repository) GetUserRef(ctx context.Context, userID string) (ports.AssigneeRef, error) {
	var row userRefModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AssigneeRef{}, domainerrors.ErrUserNotFound
		}
		return ports.AssigneeRef{}, err
	}
	return ports.AssigneeRef{
		UserID:   row.UserID,
		TenantID: row.TenantID,
		Email:    row.Email,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type projectModel struct {
	ProjectID   string    `gorm:"column:project_id;primaryKey"`
	TenantID    string    `gorm:"column:tenant_id;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "projects" }

func (m projectModel) toEntity() entities.Project {
	return entities.Project{
		ID:          m.ProjectID,
		TenantID:    m.TenantID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func projectModelFromEntity(project entities.Project) projectModel {
	return projectModel{
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt.UTC(),
		UpdatedAt:   project.UpdatedAt.UTC(),
	}
}

type membershipModel struct {
	MembershipID string    `gorm:"column:membership_id;primaryKey"`
	ProjectID    string    `gorm:"column:project_id;uniqueIndex:idx_project_user"`
	UserID       string    `gorm:"column:user_id;uniqueIndex:idx_project_user"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (membershipModel) TableName() string { return "project_memberships" }

func (m membershipModel) toEntity() entities.Membership {
	return entities.Membership{
		ID:        m.MembershipID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      entities.Role(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

func membershipModelFromEntity(membership entities.Membership) membershipModel {
	return membershipModel{
		MembershipID: membership.ID,
		ProjectID:    membership.ProjectID,
		UserID:       membership.UserID,
		Role:         string(membership.Role),
		CreatedAt:    membership.CreatedAt.UTC(),
	}
}

type userRefModel struct {
	UserID   string `gorm:"column:user_id;primaryKey"`
	TenantID string `gorm:"column:tenant_id"`
	Email    string `gorm:"column:email"`
}

func (userRefModel) TableName() string { return "users" }

type memberViewRow struct {
	MembershipID string    `gorm:"column:membership_id"`
	UserID       string    `gorm:"column:user_id"`
	Email        string    `gorm:"column:email"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

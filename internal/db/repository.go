package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goatcast/goatcast/internal/identity"
	"github.com/goatcast/goatcast/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db  *gorm.DB
	hub *Hub
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SetHub attaches the watch hub notified after every mutation
func (r *Repository) SetHub(hub *Hub) {
	r.hub = hub
}

func (r *Repository) notifyDesks(userID string) {
	if r.hub != nil {
		r.hub.NotifyDesks(userID)
	}
}

func (r *Repository) notifyColumns(deskID, userID string) {
	if r.hub != nil {
		r.hub.NotifyColumns(deskID, userID)
	}
}

// DeskRepository provides desk-related database operations
type DeskRepository struct {
	*Repository
}

// NewDeskRepository creates a new desk repository
func NewDeskRepository(repo *Repository) *DeskRepository {
	return &DeskRepository{Repository: repo}
}

// ListByUser retrieves a user's desks, newest first. Results are filtered
// by user id again after the query; the store-side filter alone is not
// trusted to scope rows (see the watch hub, which serves these snapshots
// to live subscribers).
func (r *DeskRepository) ListByUser(ctx context.Context, userID string) ([]models.Desk, error) {
	if userID == "" {
		return []models.Desk{}, nil
	}

	var desks []models.Desk
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&desks).Error; err != nil {
		return nil, err
	}

	filtered := desks[:0]
	for _, desk := range desks {
		if desk.UserID == userID {
			filtered = append(filtered, desk)
		}
	}
	return filtered, nil
}

// GetByID retrieves a desk by ID
func (r *DeskRepository) GetByID(ctx context.Context, id string) (*models.Desk, error) {
	var desk models.Desk
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&desk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &desk, nil
}

// Create creates a new desk for the given user
func (r *DeskRepository) Create(ctx context.Context, userID, name string) (*models.Desk, error) {
	if userID == "" {
		return nil, identity.ErrNotSignedIn
	}

	now := time.Now().UTC()
	desk := &models.Desk{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(desk).Error; err != nil {
		return nil, err
	}

	r.notifyDesks(userID)
	return desk, nil
}

// Rename updates a desk's name
func (r *DeskRepository) Rename(ctx context.Context, id, name string) (*models.Desk, error) {
	desk, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if desk == nil {
		return nil, nil
	}

	desk.Name = name
	desk.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(desk).Error; err != nil {
		return nil, err
	}

	r.notifyDesks(desk.UserID)
	return desk, nil
}

// Delete removes a desk and all of its columns
func (r *DeskRepository) Delete(ctx context.Context, id string) error {
	desk, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if desk == nil {
		return nil
	}

	if err := r.db.WithContext(ctx).Where("desk_id = ?", id).Delete(&models.Column{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Desk{}, "id = ?", id).Error; err != nil {
		return err
	}

	r.notifyDesks(desk.UserID)
	r.notifyColumns(id, desk.UserID)
	return nil
}

// ColumnRepository provides column-related database operations
type ColumnRepository struct {
	*Repository
}

// NewColumnRepository creates a new column repository
func NewColumnRepository(repo *Repository) *ColumnRepository {
	return &ColumnRepository{Repository: repo}
}

// ListByDesk retrieves a desk's columns in position order, double-filtered
// by user id like DeskRepository.ListByUser.
func (r *ColumnRepository) ListByDesk(ctx context.Context, deskID, userID string) ([]models.Column, error) {
	if deskID == "" || userID == "" {
		return []models.Column{}, nil
	}

	var columns []models.Column
	if err := r.db.WithContext(ctx).
		Where("desk_id = ? AND user_id = ?", deskID, userID).
		Order("position ASC").
		Find(&columns).Error; err != nil {
		return nil, err
	}

	filtered := columns[:0]
	for _, column := range columns {
		if column.UserID == userID {
			filtered = append(filtered, column)
		}
	}
	return filtered, nil
}

// GetByID retrieves a column by ID
func (r *ColumnRepository) GetByID(ctx context.Context, id string) (*models.Column, error) {
	var column models.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

// Create creates a new column
func (r *ColumnRepository) Create(ctx context.Context, column *models.Column) error {
	if column.UserID == "" {
		return identity.ErrNotSignedIn
	}

	now := time.Now().UTC()
	column.ID = uuid.NewString()
	column.CreatedAt = now
	column.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(column).Error; err != nil {
		return err
	}

	r.notifyColumns(column.DeskID, column.UserID)
	return nil
}

// Update saves a modified column
func (r *ColumnRepository) Update(ctx context.Context, column *models.Column) error {
	column.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(column).Error; err != nil {
		return err
	}

	r.notifyColumns(column.DeskID, column.UserID)
	return nil
}

// Delete removes a column
func (r *ColumnRepository) Delete(ctx context.Context, id string) error {
	column, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if column == nil {
		return nil
	}

	if err := r.db.WithContext(ctx).Delete(&models.Column{}, "id = ?", id).Error; err != nil {
		return err
	}

	r.notifyColumns(column.DeskID, column.UserID)
	return nil
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByFID retrieves a user by fid
func (r *UserRepository) GetByFID(ctx context.Context, fid int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("fid = ?", fid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// RecordLogin upserts the user row on sign-in, preserving first_login_at
func (r *UserRepository) RecordLogin(ctx context.Context, user *models.User) error {
	existing, err := r.GetByFID(ctx, user.FID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.LastLoginAt = now
	if existing == nil {
		user.FirstLoginAt = now
		return r.db.WithContext(ctx).Create(user).Error
	}

	user.FirstLoginAt = existing.FirstLoginAt
	return r.db.WithContext(ctx).Save(user).Error
}

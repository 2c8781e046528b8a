// Package store persists recipes in a relational table through gorm.
//
// Every operation touches a single row, or reads the whole table, and
// relies on the database for atomicity. Concurrent updates to the same
// recipe are last-write-wins.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipeshare/backend/internal/model"
)

// ErrNotFound is returned when no recipe matches the given id
var ErrNotFound = errors.New("recipe not found")

// RecipeStore is the persistence contract for the recipe collection
type RecipeStore interface {
	// Insert assigns ID and CreatedAt to r and persists it
	Insert(ctx context.Context, r *model.Recipe) error
	// ListAll returns every recipe, newest first
	ListAll(ctx context.Context) ([]model.Recipe, error)
	// UpdateByID applies the patch and returns the new state, or ErrNotFound
	UpdateByID(ctx context.Context, id uuid.UUID, patch model.RecipePatch) (*model.Recipe, error)
	// DeleteByID removes the recipe if present
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// Ping checks the backing storage is reachable
	Ping(ctx context.Context) error
}

// GormRecipeStore implements RecipeStore on top of gorm
type GormRecipeStore struct {
	db  *gorm.DB
	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

// Option configures a GormRecipeStore
type Option func(*GormRecipeStore)

// WithClock overrides the time source used for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *GormRecipeStore) {
		s.now = now
	}
}

// NewGormRecipeStore creates a store over db
func NewGormRecipeStore(db *gorm.DB, opts ...Option) *GormRecipeStore {
	s := &GormRecipeStore{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AutoMigrate creates the recipes table and its index when missing
func (s *GormRecipeStore) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to create recipes table: %w", err)
	}
	return nil
}

// nextCreatedAt hands out strictly increasing timestamps at the precision
// both postgres and sqlite keep, so created_at ordering matches insertion order.
func (s *GormRecipeStore) nextCreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// Insert assigns ID and CreatedAt to r and persists it
func (s *GormRecipeStore) Insert(ctx context.Context, r *model.Recipe) error {
	r.ID = uuid.New()
	r.CreatedAt = s.nextCreatedAt()
	if r.Ingredients == nil {
		r.Ingredients = model.StringList{}
	}
	if r.Steps == nil {
		r.Steps = model.StringList{}
	}

	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// ListAll returns every recipe, newest first
func (s *GormRecipeStore) ListAll(ctx context.Context) ([]model.Recipe, error) {
	recipes := []model.Recipe{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// UpdateByID applies the patch and returns the new state, or ErrNotFound
func (s *GormRecipeStore) UpdateByID(ctx context.Context, id uuid.UUID, patch model.RecipePatch) (*model.Recipe, error) {
	var recipe model.Recipe

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if patch.Empty() {
			return nil
		}

		patch.Apply(&recipe)

		result := tx.Model(&recipe).
			Select(patch.Columns()).
			Updates(&recipe)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// removed between the read and the write
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe %s: %w", id, err)
	}

	return &recipe, nil
}

// DeleteByID removes the recipe if present. Deleting a missing id is not an error.
func (s *GormRecipeStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&model.Recipe{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}

// Ping checks the backing storage is reachable
func (s *GormRecipeStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sideby/teachconnect/internal/domain/entities"
)

// TeacherRepository implements the teacher repository interface using GORM
type TeacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID finds a teacher profile by ID
func (r *TeacherRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Teacher, error) {
	var teacher entities.Teacher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&teacher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to find teacher by ID: %w", err)
	}
	return &teacher, nil
}

// Upsert creates the profile or updates its editable columns
func (r *TeacherRepository) Upsert(ctx context.Context, teacher *entities.Teacher) error {
	teacher.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name", "title", "school", "experience_years",
				"subjects", "bio", "avatar_url", "stance", "updated_at",
			}),
		}).
		Create(teacher).Error; err != nil {
		return fmt.Errorf("failed to upsert teacher: %w", err)
	}
	return nil
}

// UpdateAvatar sets the avatar URL of a profile
func (r *TeacherRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Teacher{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"avatar_url": avatarURL,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update avatar: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrTeacherNotFound
	}
	return nil
}

// Search matches full name, school and subjects case-insensitively
func (r *TeacherRepository) Search(ctx context.Context, query string, limit int) ([]*entities.Teacher, error) {
	var teachers []*entities.Teacher
	q := r.db.WithContext(ctx).Model(&entities.Teacher{})
	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + escapeLike(query) + "%"
		q = q.Where("full_name ILIKE ? OR school ILIKE ? OR subjects::text ILIKE ?", pattern, pattern, pattern)
	}
	if err := q.Order("created_at DESC").Limit(limit).Find(&teachers).Error; err != nil {
		return nil, fmt.Errorf("failed to search teachers: %w", err)
	}
	return teachers, nil
}

// Exists reports whether a profile exists
func (r *TeacherRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Teacher{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check teacher: %w", err)
	}
	return count > 0, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

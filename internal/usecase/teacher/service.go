// Package teacher manages teacher profiles, avatars and follows.
package teacher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/domain/repositories"
	"github.com/sideby/teachconnect/internal/infrastructure/storage"
	usecaseErrors "github.com/sideby/teachconnect/internal/usecase/errors"
	"github.com/sideby/teachconnect/internal/usecase/session"
)

const (
	DefaultDiscoverLimit = 20
	MaxDiscoverLimit     = 50

	MaxAvatarBytes = 5 << 20
)

var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ProfileSource yields the last profile suggestion of an owner key.
type ProfileSource interface {
	Profile(ctx context.Context, key string) (*entities.ProfileSuggestion, error)
}

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	FullName        string
	Title           string
	School          string
	ExperienceYears int
	Subjects        []string
	Bio             string
	Stance          string
}

// Profile is a teacher with follow counts as seen by a viewer.
type Profile struct {
	Teacher     *entities.Teacher
	Stats       *entities.FollowStats
	IsFollowing bool
}

// Avatar is an uploaded image.
type Avatar struct {
	Name    string
	Content io.Reader
}

type Service struct {
	teachers    repositories.TeacherRepository
	followers   repositories.FollowerRepository
	users       repositories.UserRepository
	objects     storage.ObjectStore
	suggestions ProfileSource
	logger      *zap.Logger
}

func NewService(
	teachers repositories.TeacherRepository,
	followers repositories.FollowerRepository,
	users repositories.UserRepository,
	objects storage.ObjectStore,
	suggestions ProfileSource,
	logger *zap.Logger,
) *Service {
	return &Service{
		teachers:    teachers,
		followers:   followers,
		users:       users,
		objects:     objects,
		suggestions: suggestions,
		logger:      logger,
	}
}

// UpsertProfile creates or replaces the caller's profile. The avatar is kept.
func (s *Service) UpsertProfile(ctx context.Context, identity *session.Identity, in ProfileInput) (*entities.Teacher, error) {
	if identity == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}

	t, err := s.existingOrNew(ctx, identity.UserID, in.FullName)
	if err != nil {
		return nil, err
	}
	t.FullName = strings.TrimSpace(in.FullName)
	t.Title = strings.TrimSpace(in.Title)
	t.School = strings.TrimSpace(in.School)
	t.ExperienceYears = in.ExperienceYears
	t.Subjects = cleanSubjects(in.Subjects)
	t.Bio = strings.TrimSpace(in.Bio)
	t.Stance = strings.TrimSpace(in.Stance)

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrInvalidInput, err)
	}
	if err := s.teachers.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get loads a profile with its follow counts.
func (s *Service) Get(ctx context.Context, viewer *session.Identity, id uuid.UUID) (*Profile, error) {
	t, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrTeacherNotFound) {
			return nil, usecaseErrors.ErrTeacherNotFound
		}
		return nil, err
	}

	stats, err := s.followers.Stats(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &Profile{Teacher: t, Stats: stats}
	if viewer != nil && viewer.UserID != id {
		if p.IsFollowing, err = s.followers.Exists(ctx, viewer.UserID, id); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Discover searches profiles, newest first.
func (s *Service) Discover(ctx context.Context, query string, limit int) ([]*entities.Teacher, error) {
	switch {
	case limit <= 0:
		limit = DefaultDiscoverLimit
	case limit > MaxDiscoverLimit:
		limit = MaxDiscoverLimit
	}
	return s.teachers.Search(ctx, query, limit)
}

// UploadAvatar stores the image and points the caller's profile at it.
func (s *Service) UploadAvatar(ctx context.Context, identity *session.Identity, avatar Avatar) (string, error) {
	if identity == nil {
		return "", usecaseErrors.ErrNotAuthenticated
	}
	if avatar.Content == nil {
		return "", usecaseErrors.ErrNoFileSelected
	}

	exists, err := s.teachers.Exists(ctx, identity.UserID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", usecaseErrors.ErrProfileRequired
	}

	data, err := io.ReadAll(io.LimitReader(avatar.Content, MaxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if len(data) > MaxAvatarBytes {
		return "", usecaseErrors.ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := avatarExtensions[contentType]
	if len(data) == 0 || !ok {
		return "", usecaseErrors.ErrUnsupportedImage
	}

	key := fmt.Sprintf("%s%s/%s.%s", storage.PublicPrefix, identity.UserID, uuid.NewString(), ext)
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}

	url := s.objects.PublicURL(key)
	if err := s.teachers.UpdateAvatar(ctx, identity.UserID, url); err != nil {
		return "", err
	}

	if s.logger != nil {
		s.logger.Info("Avatar uploaded",
			zap.String("user_id", identity.UserID.String()),
			zap.String("key", key),
			zap.Int("bytes", len(data)),
		)
	}
	return url, nil
}

// Follow makes the caller follow target. The caller needs a profile.
func (s *Service) Follow(ctx context.Context, identity *session.Identity, target uuid.UUID) error {
	if identity == nil {
		return usecaseErrors.ErrNotAuthenticated
	}
	if identity.UserID == target {
		return usecaseErrors.ErrCannotFollowSelf
	}

	hasProfile, err := s.teachers.Exists(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if !hasProfile {
		return usecaseErrors.ErrProfileRequired
	}

	targetExists, err := s.teachers.Exists(ctx, target)
	if err != nil {
		return err
	}
	if !targetExists {
		return usecaseErrors.ErrTeacherNotFound
	}

	if err := s.followers.Create(ctx, entities.NewFollower(identity.UserID, target)); err != nil {
		if errors.Is(err, entities.ErrFollowAlreadyExists) {
			return usecaseErrors.ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes the caller's follow of target.
func (s *Service) Unfollow(ctx context.Context, identity *session.Identity, target uuid.UUID) error {
	if identity == nil {
		return usecaseErrors.ErrNotAuthenticated
	}
	if err := s.followers.Delete(ctx, identity.UserID, target); err != nil {
		if errors.Is(err, entities.ErrFollowNotFound) {
			return usecaseErrors.ErrNotFollowing
		}
		return err
	}
	return nil
}

// ApplySuggestion copies the non-empty fields of the caller's last profile
// suggestion onto their profile, creating it when missing.
func (s *Service) ApplySuggestion(ctx context.Context, identity *session.Identity, ownerKey string) (*entities.Teacher, error) {
	if identity == nil {
		return nil, usecaseErrors.ErrNotAuthenticated
	}

	suggestion, err := s.suggestions.Profile(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if suggestion == nil || suggestion.IsEmpty() {
		return nil, usecaseErrors.ErrNoPendingSuggestions
	}

	t, err := s.existingOrNew(ctx, identity.UserID, "")
	if err != nil {
		return nil, err
	}
	t.ApplySuggestion(*suggestion)

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", usecaseErrors.ErrInvalidInput, err)
	}
	if err := s.teachers.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// existingOrNew loads the caller's profile or starts one named after the
// user when fullName is empty.
func (s *Service) existingOrNew(ctx context.Context, userID uuid.UUID, fullName string) (*entities.Teacher, error) {
	t, err := s.teachers.FindByID(ctx, userID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, entities.ErrTeacherNotFound) {
		return nil, err
	}

	if strings.TrimSpace(fullName) == "" {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, entities.ErrUserNotFound) {
				return nil, usecaseErrors.ErrNotFound
			}
			return nil, err
		}
		fullName = user.Name
	}
	return entities.NewTeacher(userID, fullName), nil
}

func cleanSubjects(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		for _, s := range entities.ParseSubjects(raw) {
			key := strings.ToLower(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

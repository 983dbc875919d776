package service

import (
	"context"

	"paceup/internal/models"
	"paceup/internal/repository"
	"paceup/internal/validation"
)

type UserService struct {
	users         repository.UserRepository
	registrations repository.RegistrationRepository
	posts         repository.PostRepository
}

type UpdateProfileInput struct {
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Avatar     string `json:"avatar"`
	Experience string `json:"running_experience"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
}

// UserStats summarizes a user's activity for the profile page.
type UserStats struct {
	JoinedEvents       int64   `json:"joined_events"`
	ApprovedEvents     int64   `json:"approved_events"`
	PendingEvents      int64   `json:"pending_events"`
	Posts              int64   `json:"posts"`
	Experience         string  `json:"running_experience"`
	ExpectedDistanceKm float64 `json:"expected_distance_km"`
}

func NewUserService(
	users repository.UserRepository,
	registrations repository.RegistrationRepository,
	posts repository.PostRepository,
) *UserService {
	return &UserService{users: users, registrations: registrations, posts: posts}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, err
		}
		user.Username = in.Username
	}
	if in.Experience != "" {
		if err := validation.ValidateExperience(in.Experience); err != nil {
			return nil, err
		}
		user.Experience = in.Experience
	}
	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if in.Location != "" {
		user.Location = in.Location
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetStats aggregates registration and post counts. The expected distance is
// derived from the user's self-reported running experience.
func (s *UserService) GetStats(ctx context.Context, userID string) (*UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	all, err := s.registrations.List(ctx, repository.RegistrationFilter{UserID: userID, Status: "all"})
	if err != nil {
		return nil, err
	}
	stats := &UserStats{
		JoinedEvents: int64(len(all)),
		Experience:   user.Experience,
	}
	for _, reg := range all {
		switch reg.Status {
		case models.StatusApproved:
			stats.ApprovedEvents++
		case models.StatusPending:
			stats.PendingEvents++
		}
	}

	userPosts, err := s.posts.List(ctx, repository.PostFilter{UserID: userID, Status: "all"}, userID)
	if err != nil {
		return nil, err
	}
	stats.Posts = int64(len(userPosts))

	if km, ok := models.ExpectedDistanceKm[user.Experience]; ok {
		stats.ExpectedDistanceKm = km
	}
	return stats, nil
}

// JoinedEvents lists registrations for the user with event details joined.
func (s *UserService) JoinedEvents(ctx context.Context, userID string, limit, offset int) ([]*models.EventRegistration, error) {
	return s.registrations.List(ctx, repository.RegistrationFilter{
		UserID: userID,
		Status: "all",
		Limit:  limit,
		Offset: offset,
	})
}

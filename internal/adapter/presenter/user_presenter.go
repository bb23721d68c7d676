package presenter

import (
	authDTO "github.com/sideby/teachconnect/internal/adapter/dto/auth"
	"github.com/sideby/teachconnect/internal/domain/entities"
	"github.com/sideby/teachconnect/internal/usecase/auth"
)

// ToUserResponse converts a User entity to UserResponse DTO
func ToUserResponse(u *entities.User) *authDTO.UserResponse {
	if u == nil {
		return nil
	}

	response := &authDTO.UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		Role:          string(u.Role),
		EmailVerified: u.IsEmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}

	// Set optional fields
	if u.AvatarURL != nil {
		response.AvatarURL = *u.AvatarURL
	}
	if u.OAuthProvider != nil {
		response.OAuthProvider = *u.OAuthProvider
	}

	return response
}

// ToAuthResponse converts a sign-in or refresh result to AuthResponse DTO
func ToAuthResponse(r *auth.AuthResult) *authDTO.AuthResponse {
	if r == nil {
		return nil
	}
	return &authDTO.AuthResponse{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    int(r.ExpiresIn),
		TokenType:    "Bearer",
		User:         ToUserResponse(r.User),
	}
}

// ToSessionStatusResponse converts the initial session check
func ToSessionStatusResponse(s *auth.SessionStatus) *authDTO.SessionStatusResponse {
	if s == nil {
		return &authDTO.SessionStatusResponse{}
	}
	return &authDTO.SessionStatusResponse{
		Authenticated: s.Authenticated,
		User:          ToUserResponse(s.User),
	}
}

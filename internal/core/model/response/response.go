package response

import "userapp/internal/core/domain"

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserEnvelope struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type LoginResponse struct {
	Status  string `json:"status"`
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type FailedResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func FromUser(user domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// FromUsers never returns nil so an empty result encodes as [].
func FromUsers(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))

	for _, user := range users {
		result = append(result, FromUser(user))
	}

	return result
}

// Package dto содержит объекты передачи данных HTTP API.
package dto

import "time"

// TokenTypeBearer - тип выдаваемого access токена.
const TokenTypeBearer = "bearer"

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse возвращается после успешной регистрации.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userID"`
}

// LoginResponse возвращается после успешного входа.
// Refresh токен передается только в cookie.
type LoginResponse struct {
	User        string `json:"user"`
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// RefreshResponse содержит новый access токен.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// MessageResponse - ответ с текстовым сообщением.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserProfileResponse содержит данные профиля пользователя.
type UserProfileResponse struct {
	UserID    int64     `json:"userID"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

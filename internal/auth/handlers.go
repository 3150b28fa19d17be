package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gampahin-husmak/community-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SessionUser struct {
	ID           uint        `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FullName     string      `json:"full_name"`
	Role         models.Role `json:"role"`
	ProfileImage string      `json:"profile_image,omitempty"`
	IsVerified   bool        `json:"is_verified"`
}

func sessionUser(u *models.User) SessionUser {
	return SessionUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
		IsVerified:   u.IsVerified,
	}
}

func (h *AuthHandler) sessionCookie(token string) http.Cookie {
	return http.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
}

type RegisterRequest struct {
	Body struct {
		Username     string `json:"username" minLength:"3" required:"true"`
		Email        string `json:"email" format:"email" required:"true"`
		Password     string `json:"password" minLength:"8" required:"true"`
		FullName     string `json:"full_name" required:"true"`
		PhoneNumber  string `json:"phone_number,omitempty"`
		Address      string `json:"address,omitempty"`
		ProfileImage string `json:"profile_image,omitempty"`
	}
}

type SessionResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string      `json:"message"`
		User    SessionUser `json:"user"`
	}
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*SessionResponse, error) {
	var existing models.User
	err := h.db.WithContext(ctx).
		Where("email = ? OR username = ?", input.Body.Email, input.Body.Username).
		First(&existing).Error
	if err == nil {
		return nil, huma.Error400BadRequest("User already exists")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, huma.Error500InternalServerError("Failed to look up user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Username:     input.Body.Username,
		Email:        input.Body.Email,
		Password:     hashed,
		FullName:     input.Body.FullName,
		Role:         models.RoleVolunteer,
		PhoneNumber:  input.Body.PhoneNumber,
		Address:      input.Body.Address,
		ProfileImage: input.Body.ProfileImage,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create user")
	}

	token, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &SessionResponse{SetCookie: h.sessionCookie(token)}
	res.Body.Message = "User registered successfully"
	res.Body.User = sessionUser(&user)
	return res, nil
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" required:"true"`
		Password string `json:"password" required:"true"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*SessionResponse, error) {
	var user models.User
	if err := h.db.WithContext(ctx).Where("email = ?", input.Body.Email).First(&user).Error; err != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(input.Body.Password)); err != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	token, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &SessionResponse{SetCookie: h.sessionCookie(token)}
	res.Body.Message = "Login successful"
	res.Body.User = sessionUser(&user)
	return res, nil
}

type LogoutResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleLogout(ctx context.Context, input *struct{}) (*LogoutResponse, error) {
	res := &LogoutResponse{
		SetCookie: http.Cookie{
			Name:     cookieName,
			Value:    "",
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Path:     "/",
		},
	}
	res.Body.Message = "Logout successful"
	return res, nil
}

type MeRequest struct {
	AuthInput
}

type MeResponse struct {
	Body struct {
		User SessionUser `json:"user"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	user, err := h.CurrentUser(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	res := &MeResponse{}
	res.Body.User = sessionUser(user)
	return res, nil
}

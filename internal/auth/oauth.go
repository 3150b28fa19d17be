package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gampahin-husmak/community-api/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
)

func (h *AuthHandler) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.DiscordClientID,
		ClientSecret: h.cfg.DiscordClientSecret,
		RedirectURL:  h.cfg.DiscordRedirectURL,
		Scopes:       []string{"identify", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  DiscordAuthorizeEndpoint,
			TokenURL: DiscordTokenEndpoint,
		},
	}
}

// HandleDiscordLogin starts the optional Discord social login.
func (h *AuthHandler) HandleDiscordLogin(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig().AuthCodeURL("state", oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleDiscordCallback links or creates a volunteer account for the Discord
// identity and issues the same session cookie as a password login.
func (h *AuthHandler) HandleDiscordCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	conf := h.oauthConfig()
	token, err := conf.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := conf.Client(r.Context(), token)
	resp, err := client.Get(DiscordUserAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	user, err := h.linkDiscordUser(r.Context(), discordUser.ID, discordUser.Username, discordUser.Email, discordUser.Avatar)
	if err != nil {
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    jwtToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	})

	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) linkDiscordUser(ctx context.Context, discordID, username, email, avatar string) (*models.User, error) {
	var user models.User

	err := h.db.WithContext(ctx).Where("discord_id = ?", discordID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// Link an existing password account with the same email.
	if email != "" {
		err = h.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err == nil {
			user.DiscordID = discordID
			if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
				return nil, err
			}
			return &user, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	user = models.User{
		Username:     uniqueUsername(username, discordID),
		Email:        email,
		FullName:     username,
		Role:         models.RoleVolunteer,
		ProfileImage: avatar,
		DiscordID:    discordID,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// uniqueUsername suffixes the Discord handle so it cannot clash with an
// existing local username.
func uniqueUsername(username, discordID string) string {
	suffix := discordID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("%s-%s", username, suffix)
}

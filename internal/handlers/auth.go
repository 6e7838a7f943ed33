package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"spinwheel-backend/internal/services"
)

type AuthHandler struct {
	jwtService *services.JWTService
	botToken   string
	devMode    bool
}

func NewAuthHandler(jwtService *services.JWTService, botToken string, devMode bool) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		botToken:   botToken,
		devMode:    devMode,
	}
}

type telegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

// Authenticate validates Telegram WebApp init data and issues a JWT. In
// development mode a bare user_id query parameter is accepted instead so
// the API can be exercised without Telegram.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	initData := c.Query("initData")
	if initData == "" {
		initData = c.Query("init_data")
	}

	if initData == "" {
		if h.devMode {
			if userID := c.Query("user_id"); userID != "" {
				h.issueToken(c, userID, "", "")
				return
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "initData is required"})
		return
	}

	user, err := h.verifyInitData(initData)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data"})
		return
	}

	username := user.Username
	if username == "" {
		username = user.FirstName
	}

	h.issueToken(c, fmt.Sprintf("%d", user.ID), username, user.PhotoURL)
}

func (h *AuthHandler) issueToken(c *gin.Context, userID, username, avatarURL string) {
	token, err := h.jwtService.GenerateToken(userID, "user")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"user_id":    userID,
			"username":   username,
			"avatar_url": avatarURL,
		},
	})
}

// verifyInitData checks the Telegram WebApp signature: HMAC-SHA256 over the
// sorted key=value lines with a key derived from the bot token.
func (h *AuthHandler) verifyInitData(initData string) (*telegramUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("missing hash")
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	checkString := strings.Join(lines, "\n")

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(h.botToken))
	secret := secretMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(wantHash), []byte(gotHash)) {
		return nil, fmt.Errorf("hash mismatch")
	}

	var user telegramUser
	if raw := values.Get("user"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, err
		}
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("missing user")
	}

	return &user, nil
}

package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"gamecatalog/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LoginInput defines the structure for admin login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse carries an issued admin token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
}

// AuthHandler issues admin tokens for the configured account.
type AuthHandler struct {
	username     string
	passwordHash string
	secret       string
	ttl          time.Duration
	log          logrus.FieldLogger
}

func NewAuthHandler(username, passwordHash, secret string, ttl time.Duration, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		username:     username,
		passwordHash: passwordHash,
		secret:       secret,
		ttl:          ttl,
		log:          log,
	}
}

// Login godoc
// @Summary      Obtain an admin token
// @Description  Checks the admin credentials and returns a token for write routes.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	log := h.log.WithField("username", input.Username)

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(h.username)) == 1
	if h.passwordHash == "" || !userOK {
		log.Warn("Rejected admin login.")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(input.Password)); err != nil {
		log.Warn("Rejected admin login.")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(input.Username, jwt.RoleAdmin, h.secret, h.ttl)
	if err != nil {
		log.WithError(err).Error("Failed to generate token.")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	log.Info("Admin token issued.")
	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresIn: int64(h.ttl.Seconds())})
}

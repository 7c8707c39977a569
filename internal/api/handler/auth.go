package handler

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	jwt "github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("opsdash-dev-secret")
}

// generateJWT генерує JWT зі staff ID співробітника.
func generateJWT(staffID string) (string, error) {
	claims := jwt.MapClaims{
		"staff_id": staffID,
		"exp":      time.Now().Add(time.Hour * 12).Unix(),
		"iss":      "opsdash-messaging",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// validateAndGetStaffID перевіряє токен і повертає staff ID з claims.
func (h *Handler) validateAndGetStaffID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("malformed claims")
	}
	staffID, _ := claims["staff_id"].(string)
	if staffID == "" {
		return "", errors.New("token missing staff_id")
	}
	return staffID, nil
}

// GetStaffToken issues a connection token for a known, active staff user.
// The identity service fronts this in production; the endpoint exists for
// ops tooling and local development.
func (h *Handler) GetStaffToken(c *gin.Context) {
	staffID := c.Query("staff_id")
	if staffID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff_id is required"})
		return
	}
	identity, err := h.Directory.Resolve(staffID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown or inactive staff user"})
		return
	}

	token, err := generateJWT(identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "staff_id": identity.ID})
}

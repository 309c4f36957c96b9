package auth

import (
	"time"

	"printsync-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	AccountID uint               `json:"account_id"`
	Username  string             `json:"username"`
	Role      models.AccountRole `json:"role"`
	BranchID  *uint              `json:"branch_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, account *models.Account) (string, error) {
	claims := &JWTCustomClaims{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		BranchID:  account.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   account.Username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

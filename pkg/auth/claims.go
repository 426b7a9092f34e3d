package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/BlessingGianna7/rest-pms-system/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uint
	Role   enums.Role
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uint       `json:"user_id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

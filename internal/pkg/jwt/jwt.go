package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service issues and verifies clerk access tokens for the ledger API.
type Service interface {
	GenerateAccessToken(clerkID string) (token string, expiresAt int64, err error)
	ValidateAccessToken(tokenString string) (clerkID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(clerkID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"clerk_id": clerkID,
		"type":     "access",
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}

// ValidateAccessToken decodes tokenString and returns its clerk id.
func (j *JWTService) ValidateAccessToken(tokenString string) (clerkID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "access" {
		return "", jwt.ErrInvalidJWT()
	}

	clerkIDVal, ok := token.Get("clerk_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	clerkID, ok = clerkIDVal.(string)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	return clerkID, nil
}

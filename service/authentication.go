package service

import (
	"bff-gateway/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type userClaims struct {
	*jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

type Authentication struct {
	secret string
}

func NewAuthentication(secret string) Authentication {
	return Authentication{
		secret: secret,
	}
}

func (s Authentication) Authenticate(token string) (*domain.Claims, error) {
	claims := &userClaims{RegisteredClaims: &jwt.RegisteredClaims{}}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.WithMessage(err, "jwt parse with claims")
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Claims{
		Subject: claims.Subject,
		Roles:   domain.NewRoles(claims.Roles...),
	}, nil
}

package middleware

import (
	"context"
	"fmt"

	"github.com/Dosada05/aswat-contest/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID = "user_id"
	jwtClaimName   = "name"
	jwtClaimRole   = "role"
)

func GetUserFromContext(ctx context.Context) (models.User, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return models.User{}, errNoClaims
	}
	return userFromClaims(claims)
}

func userFromClaims(claims jwt.MapClaims) (models.User, error) {
	id, err := stringClaim(claims, jwtClaimUserID)
	if err != nil {
		return models.User{}, err
	}
	roleStr, err := stringClaim(claims, jwtClaimRole)
	if err != nil {
		return models.User{}, err
	}
	role := models.UserRole(roleStr)
	switch role {
	case models.RoleAdmin, models.RoleJudge:
	default:
		return models.User{}, fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
	name, _ := claims[jwtClaimName].(string)
	return models.User{ID: id, Name: name, Role: role}, nil
}

func stringClaim(claims jwt.MapClaims, key string) (string, error) {
	raw, ok := claims[key]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("invalid type for '%s' claim: expected non-empty string, got %T", key, raw)
	}
	return s, nil
}

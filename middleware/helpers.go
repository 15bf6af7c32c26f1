package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"github.com/harjotgill/sports-office/models"
)

// JWT claim names.
const (
	jwtClaimUserID     = "user_id"
	jwtClaimRoles      = "roles"
	jwtClaimActiveRole = "active_role"
)

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("user claims not found in context or invalid type")
	}
	return claims, nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}

	userIDFloat, ok := userIDClaim.(float64)
	if !ok {
		userIDStr, okStr := userIDClaim.(string)
		if okStr {
			userIDInt, convErr := strconv.Atoi(userIDStr)
			if convErr == nil && userIDInt > 0 {
				return userIDInt, nil
			}
		}
		return 0, fmt.Errorf("invalid type for '%s' claim: expected float64 or string, got %T", jwtClaimUserID, userIDClaim)
	}

	userID := int(userIDFloat)
	if userID <= 0 || userIDFloat != float64(userID) {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %v", jwtClaimUserID, userIDClaim)
	}
	return userID, nil
}

func GetActiveRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}

	roleClaim, ok := claims[jwtClaimActiveRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimActiveRole)
	}
	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimActiveRole, roleClaim)
	}

	role := models.UserRole(roleStr)
	if !models.ValidRole(role) {
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
	return role, nil
}

// GetRolesFromContext returns every role the token carries, not just
// the active one.
func GetRolesFromContext(ctx context.Context) ([]models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rawRoles, ok := claims[jwtClaimRoles].([]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid '%s' claim in token", jwtClaimRoles)
	}

	roles := make([]models.UserRole, 0, len(rawRoles))
	for _, raw := range rawRoles {
		roleStr, okStr := raw.(string)
		if !okStr {
			continue
		}
		role := models.UserRole(roleStr)
		if models.ValidRole(role) {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

package utils

import (
	"fmt"

	"github.com/datashield-dev/datashield/internal/middleware"
	"github.com/datashield-dev/datashield/internal/policy"
	"github.com/datashield-dev/datashield/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// RequestContext builds the policy context for the authenticated requester.
// The purpose comes from the X-Request-Purpose header, falling back to the
// handler's default; the role comes from the user row.
func RequestContext(ctx *gin.Context, defaultPurpose string) (policy.Context, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return policy.Context{}, err
	}

	purpose := ctx.GetHeader(types.PurposeHeader)

	if purpose == "" {
		purpose = defaultPurpose
	}

	return policy.Context{
		UserID:  user.ID,
		Role:    user.Role,
		Purpose: purpose,
	}, nil
}

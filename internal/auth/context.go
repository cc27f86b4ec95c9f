package auth

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stridewear/catalog-service/internal/common"
)

// The upstream auth collaborator resolves the session and forwards an opaque
// identity as headers. This service trusts the role check already happened
// and only maps the pair into the request context.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxKeyOperator = "operator"

	RoleOperator = "operator"
)

type Operator struct {
	UserID int64
	Role   string
}

// RequireOperator gates the admin route group.
func RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(headerUserRole)
		if role != RoleOperator {
			common.RespondError(c, common.NewAuthorizationError("operator role required"))
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(c.GetHeader(headerUserID), 10, 64)
		if err != nil {
			common.RespondError(c, common.NewAuthorizationError("missing or malformed user id"))
			c.Abort()
			return
		}

		c.Set(ctxKeyOperator, Operator{UserID: userID, Role: role})
		c.Next()
	}
}

// GetOperator returns the operator identity set by RequireOperator.
func GetOperator(c *gin.Context) (Operator, bool) {
	val, ok := c.Get(ctxKeyOperator)
	if !ok {
		return Operator{}, false
	}
	op, ok := val.(Operator)
	return op, ok
}

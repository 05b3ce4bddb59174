package middleware

import (
	"net/http"
	"strconv"

	"tillbook/internal/apierror"

	"github.com/gin-gonic/gin"
)

const BranchKey = "branch_id"

// BranchContext reads the X-Branch-ID header that scopes every register
// query. The header is a scoping key only — tenant isolation is a backend
// policy enforced elsewhere.
func BranchContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Branch-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New("X-Branch-ID header required"))
			return
		}
		branchID, err := strconv.Atoi(raw)
		if err != nil || branchID < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New("invalid X-Branch-ID header"))
			return
		}
		c.Set(BranchKey, branchID)
		c.Next()
	}
}

// GetBranchID retrieves the branch scope set by BranchContext.
func GetBranchID(c *gin.Context) int {
	return c.GetInt(BranchKey)
}

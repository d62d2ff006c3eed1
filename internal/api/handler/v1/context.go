package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mpetrenko/secret-santa-api/internal/api/middleware"
)

func currentUserID(ctx *gin.Context) (uint, bool) {
	value, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return 0, false
	}

	userID, ok := value.(uint)

	return userID, ok
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %v %q", name, raw)
	}

	return uint(value), nil
}

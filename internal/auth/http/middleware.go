package http

import (
	"github.com/gin-gonic/gin"

	authService "github.com/prateekro/trayme-guard/internal/auth/service"
)

// PasscodeHeader carries the device-owner passcode for prompts raised while
// serving the request.
const PasscodeHeader = "X-Passcode"

// PasscodeMiddleware moves the X-Passcode header into the request context for
// ContextCredentialSource and strips it so it is never logged or forwarded.
func PasscodeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if passcode := c.GetHeader(PasscodeHeader); passcode != "" {
			ctx := authService.WithPasscode(c.Request.Context(), []byte(passcode))
			c.Request = c.Request.WithContext(ctx)
			c.Request.Header.Del(PasscodeHeader)
		}
		c.Next()
	}
}

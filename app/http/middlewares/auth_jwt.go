package middlewares

import (
	"net/http"
	"strings"

	"tarot-trader/pkg/auth"
	"tarot-trader/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthJWT 校验 Authorization: Bearer <token>，成功后写入 user_id 和 identity
func AuthJWT(j *auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			response.Abort401(c, "缺少身份令牌")
			return
		}

		identity, err := j.Parse(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err, "身份令牌无效或已过期")
			return
		}

		c.Set("user_id", identity.ID)
		c.Set("identity", identity)
		c.Next()
	}
}

// CurrentIdentity 取出 AuthJWT 写入的身份
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get("identity")
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"CHORUS-backend/internal/platform/apierr"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

type TokenParser interface {
	Parse(tokenStr string) (*Claims, error)
}

// RequireAuth: Authorization: Bearer <token> を検証して context に sub/role を詰める
func RequireAuth(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			apierr.Abort(c, apierr.ErrUnauthorized("missing Authorization header"))
			return
		}
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierr.Abort(c, apierr.ErrUnauthorized("invalid Authorization header"))
			return
		}
		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			apierr.Abort(c, apierr.ErrUnauthorized("empty token"))
			return
		}

		claims, err := p.Parse(tokenStr)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		c.Set(CtxUserIDKey, claims.Subject)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole: RequireAuth の後ろに置く
func RequireRole(roles ...Role) gin.HandlerFunc {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if r != "" {
			allowed[r] = struct{}{}
		}
	}
	return func(c *gin.Context) {
		v, ok := c.Get(CtxRoleKey)
		if !ok {
			apierr.Abort(c, apierr.ErrForbidden("missing role"))
			return
		}
		role, ok := v.(Role)
		if !ok || role == "" {
			apierr.Abort(c, apierr.ErrForbidden("invalid role"))
			return
		}
		if _, ok := allowed[role]; !ok {
			apierr.Abort(c, apierr.ErrForbidden("forbidden"))
			return
		}
		c.Next()
	}
}

// Reader: 個人情報を返す参照系ルート用（ロールは問わない）
func Reader(p TokenParser) []gin.HandlerFunc {
	return []gin.HandlerFunc{RequireAuth(p)}
}

// Writer: 更新系ルートに付けるミドルウェア一式
func Writer(p TokenParser) []gin.HandlerFunc {
	return []gin.HandlerFunc{RequireAuth(p), RequireRole(RoleAdmin, RoleOperator)}
}

// Admin: アカウント管理用
func Admin(p TokenParser) []gin.HandlerFunc {
	return []gin.HandlerFunc{RequireAuth(p), RequireRole(RoleAdmin)}
}

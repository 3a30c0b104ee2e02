package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/cache"
	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/shared/apperr"
)

const adminTokenPrefix = "admin_token:"

// AdminSessions keeps bearer tokens for the admin endpoints. Tokens are
// opaque, issued by the login handler and expire with the cache tier.
type AdminSessions struct {
	store *cache.Cache
}

func NewAdminSessions(store *cache.Cache) *AdminSessions {
	return &AdminSessions{store: store}
}

func (s *AdminSessions) Issue() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	token := hex.EncodeToString(b)
	s.store.Set(adminTokenPrefix+token, true, cache.TierFrozen)
	return token
}

func (s *AdminSessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	_, ok := s.store.Get(adminTokenPrefix + token)
	return ok
}

func (s *AdminSessions) Revoke(token string) {
	s.store.InvalidatePrefix(adminTokenPrefix + token)
}

// RequireAdmin guards the admin group. Missing or unknown tokens get 401.
func RequireAdmin(sessions *AdminSessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if !sessions.Valid(token) {
			Fail(c, apperr.UnauthorizedErr("authentication required"))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

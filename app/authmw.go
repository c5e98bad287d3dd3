package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toolcrib/db"
	"toolcrib/models"
	"toolcrib/session"
)

// SessionHeader carries the opaque token issued by POST /api/sessions. This
// is a deliberate stub: there is no credential check behind it.
const SessionHeader = "X-Session-Token"

func AuthRequired(sessions *session.Store, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		sess, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), sess.UserID)
		if err != nil {
			_ = sessions.Delete(c.Request.Context(), token)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("role", u.Role)
		c.Next()
	}
}

// AdminOnly requires AuthRequired to have run first.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("role")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if role, _ := v.(models.Role); role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

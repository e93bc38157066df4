package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-foodorders/internal/models"
)

const SessionName = "gosess"

const (
	keyUserID = "user_id"
	keyLogin  = "login"
	keyName   = "name"
	keyRole   = "role"
	keyEmail  = "email"
	keyPhone  = "phone"

	ctxUser = "user"
)

// SaveUser stores the user record in the cookie session.
func SaveUser(c *gin.Context, u models.User) error {
	sess := sessions.Default(c)
	sess.Set(keyUserID, u.ID)
	sess.Set(keyLogin, u.Login)
	sess.Set(keyName, u.Name)
	sess.Set(keyRole, u.Role)
	sess.Set(keyEmail, u.Email)
	sess.Set(keyPhone, u.Phone)
	return sess.Save()
}

func ClearUser(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	return sess.Save()
}

// LoadUser puts the session's user, if any, on the gin context.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		login, _ := sess.Get(keyLogin).(string)
		if login != "" {
			u := models.User{
				ID:    str(sess.Get(keyUserID)),
				Login: login,
				Name:  str(sess.Get(keyName)),
				Role:  str(sess.Get(keyRole)),
				Email: str(sess.Get(keyEmail)),
				Phone: str(sess.Get(keyPhone)),
			}
			c.Set(ctxUser, &u)
		}
		c.Next()
	}
}

// CurrentUser returns nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// RequireAuth ensures the user is logged in. It expects LoadUser to run first.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if u.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	config "github.com/Keoroanthony/go-foodorders/configs"
	"github.com/Keoroanthony/go-foodorders/internal/models"
)

const (
	keyOIDCState = "oidc_state"
	oidcPrefix   = "oidc:"
)

// OIDC signs users in through an OpenID Connect provider as an alternative to
// the credential table. Provider users always get the plain user role.
type OIDC struct {
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
	log          *logrus.Entry
}

func NewOIDC(ctx context.Context, cfg config.OIDCConfig, log *logrus.Entry) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("OIDC provider init error: %w", err)
	}
	return &OIDC{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone"},
		},
		log: log.WithField("component", "oidc"),
	}, nil
}

// GET /auth/oidc/login
func (o *OIDC) Login(c *gin.Context) {
	state := uuid.NewString()
	sess := sessions.Default(c)
	sess.Set(keyOIDCState, state)
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	c.Redirect(http.StatusFound, o.oauth2Config.AuthCodeURL(state))
}

// GET /auth/oidc/callback
func (o *OIDC) Callback(c *gin.Context) {
	sess := sessions.Default(c)
	if want, _ := sess.Get(keyOIDCState).(string); want == "" || want != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := o.oauth2Config.Exchange(ctx, code)
	if err != nil {
		o.log.WithError(err).Warn("token exchange failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := o.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	user := claims.User()
	sess.Delete(keyOIDCState)
	if err := SaveUser(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}
	o.log.WithField("user", user.Login).Info("signed in through OIDC")
	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

type Claims struct {
	Sub               string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Phone             string `json:"phone_number"`
}

// User maps provider claims onto a user record. The login falls back from the
// preferred username to the email and finally to the subject, and is prefixed
// so provider users never share carts or orders with local accounts.
func (cl Claims) User() models.User {
	login := cl.PreferredUsername
	if login == "" {
		login = cl.Email
	}
	if login == "" {
		login = cl.Sub
	}
	return models.User{
		ID:    oidcPrefix + cl.Sub,
		Login: oidcPrefix + login,
		Name:  cl.Name,
		Role:  models.RoleUser,
		Email: cl.Email,
		Phone: cl.Phone,
	}
}

// Package handlers is the gin presentation layer over the catalog, order and
// cart engines.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Keoroanthony/go-foodorders/internal/auth"
	"github.com/Keoroanthony/go-foodorders/internal/cart"
	"github.com/Keoroanthony/go-foodorders/internal/catalog"
	"github.com/Keoroanthony/go-foodorders/internal/metrics"
	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/notifier"
	"github.com/Keoroanthony/go-foodorders/internal/orders"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

type Options struct {
	Store    storage.Store
	Catalog  *catalog.Store
	Orders   *orders.Service
	Auth     auth.Authenticator
	Notifier notifier.Notifier
	Clock    timeutil.Clock
	Logger   *logrus.Entry

	// Optional.
	OIDC         *auth.OIDC
	LoginLimiter *auth.LoginLimiter
}

type Handler struct {
	kv      storage.Store
	catalog *catalog.Store
	orders  *orders.Service
	auth    auth.Authenticator
	notify  notifier.Notifier
	clock   timeutil.Clock
	log     *logrus.Entry
	oidc    *auth.OIDC
	limiter *auth.LoginLimiter
}

func New(opts Options) *Handler {
	h := &Handler{
		kv:      opts.Store,
		catalog: opts.Catalog,
		orders:  opts.Orders,
		auth:    opts.Auth,
		notify:  opts.Notifier,
		clock:   opts.Clock,
		log:     opts.Logger,
		oidc:    opts.OIDC,
		limiter: opts.LoginLimiter,
	}
	if h.notify == nil {
		h.notify = notifier.Multi{}
	}
	if h.clock == nil {
		h.clock = timeutil.System
	}
	if h.log == nil {
		h.log = logrus.NewEntry(logrus.StandardLogger())
	}
	h.log = h.log.WithField("component", "http")
	return h
}

// Register mounts every route. The router must already carry the session
// middleware.
func (h *Handler) Register(r gin.IRouter) {
	r.Use(auth.LoadUser())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ── auth ──
	a := r.Group("/auth")
	{
		login := []gin.HandlerFunc{h.Login}
		if h.limiter != nil {
			login = append([]gin.HandlerFunc{h.limiter.Middleware()}, login...)
		}
		a.POST("/login", login...)
		a.POST("/logout", h.Logout)
		a.GET("/me", h.Me)
		if h.oidc != nil {
			a.GET("/oidc/login", h.oidc.Login)
			a.GET("/oidc/callback", h.oidc.Callback)
		}
	}

	// ── catalog ──
	api := r.Group("/api")
	api.GET("/foods", h.ListFoods)
	api.GET("/foods/:id", h.GetFood)
	api.GET("/categories", h.ListCategories)

	admin := api.Group("")
	admin.Use(auth.RequireRole(models.RoleAdmin))
	{
		admin.POST("/foods", h.CreateFood)
		admin.PUT("/foods/:id", h.UpdateFood)
		admin.DELETE("/foods/:id", h.DeleteFood)
	}

	// ── orders and cart ──
	user := api.Group("")
	user.Use(auth.RequireAuth())
	{
		user.GET("/orders", h.ListOrders)
		user.POST("/orders", h.PlaceOrder)
		user.POST("/orders/:id/approve", h.ApproveOrder)
		user.POST("/orders/:id/archive", h.ArchiveOrder)
		user.DELETE("/orders/:id", h.DeleteOrder)

		user.GET("/cart", h.GetCart)
		user.POST("/cart/items", h.AddCartItem)
		user.PUT("/cart/items/:id", h.SetCartQty)
		user.DELETE("/cart/items/:id", h.RemoveCartItem)
		user.DELETE("/cart", h.ClearCart)
		user.POST("/cart/checkout", h.Checkout)
	}
}

func (h *Handler) session(c *gin.Context) session.Context {
	return session.New(auth.CurrentUser(c), h.clock)
}

var badRequest = []error{
	orders.ErrInvalidDate,
	orders.ErrStartInPast,
	orders.ErrEndBeforeStart,
	catalog.ErrInvalidItem,
	cart.ErrQtyOutOfRange,
	cart.ErrEmptyCart,
}

// fail maps core errors onto responses. Anything unrecognised is a backend
// failure.
func (h *Handler) fail(c *gin.Context, err error) {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if errors.Is(err, cart.ErrNoIdentity) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	h.log.WithError(err).WithFields(logrus.Fields{"method": c.Request.Method, "path": c.FullPath()}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// NotifyTimeout bounds a single background notification.
const NotifyTimeout = 30 * time.Second

// notifyAsync delivers msg off the request path.
func (h *Handler) notifyAsync(u *models.User, msg notifier.Message) {
	if u == nil {
		return
	}
	to := *u
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), NotifyTimeout)
		defer cancel()
		if err := h.notify.Notify(ctx, to, msg); err != nil {
			h.log.WithError(err).WithField("user", to.Login).Warn("notification failed")
		}
	}()
}

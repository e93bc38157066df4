package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Keoroanthony/go-foodorders/internal/auth"
	"github.com/Keoroanthony/go-foodorders/internal/catalog"
	"github.com/Keoroanthony/go-foodorders/internal/handlers"
	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/notifier"
	"github.com/Keoroanthony/go-foodorders/internal/orders"
	"github.com/Keoroanthony/go-foodorders/internal/session"
	"github.com/Keoroanthony/go-foodorders/internal/storage"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

const testSecret = "test-secret-key"

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

var (
	adminUser = auth.DefaultCredentials()[0].User
	plainUser = auth.DefaultCredentials()[1].User
)

type recordingNotifier struct {
	mu        sync.Mutex
	msgs      []notifier.Message
	deadlines []time.Time
}

func (r *recordingNotifier) Notify(ctx context.Context, _ models.User, msg notifier.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	deadline, _ := ctx.Deadline()
	r.deadlines = append(r.deadlines, deadline)
	return nil
}

func (r *recordingNotifier) deadline(i int) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deadlines[i]
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

type testEnv struct {
	router *gin.Engine
	kv     *storage.MemoryStore
	notes  *recordingNotifier
}

func setupTestRouter(t *testing.T, configure ...func(*handlers.Options)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	log := logrus.NewEntry(l)

	ctx := context.Background()
	kv := storage.NewMemoryStore()
	clock := timeutil.Fixed(testNow)

	foods := catalog.NewStore(storage.NewCollection[models.Item](kv, storage.KeyFoods, log), log)
	_, err := foods.EnsureSeed(ctx, session.Anonymous(clock))
	require.NoError(t, err)

	orderSvc := orders.NewService(storage.NewCollection[models.Order](kv, storage.KeyOrders, log), log)
	require.NoError(t, orderSvc.EnsureInitialized(ctx))

	dir, err := auth.NewDirectory(auth.DefaultCredentials(), bcrypt.MinCost)
	require.NoError(t, err)

	notes := &recordingNotifier{}
	opts := handlers.Options{
		Store:    kv,
		Catalog:  foods,
		Orders:   orderSvc,
		Auth:     dir,
		Notifier: notes,
		Clock:    clock,
		Logger:   log,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sessions.Sessions(auth.SessionName, cookie.NewStore([]byte(testSecret))))
	handlers.New(opts).Register(r)

	return &testEnv{router: r, kv: kv, notes: notes}
}

// sessionCookie builds a signed session cookie for user the same way the
// login handler would.
func sessionCookie(t *testing.T, user *models.User) string {
	t.Helper()
	if user == nil {
		return ""
	}
	tempW := httptest.NewRecorder()
	tempC, _ := gin.CreateTestContext(tempW)
	tempC.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	sessions.Sessions(auth.SessionName, cookie.NewStore([]byte(testSecret)))(tempC)
	require.NoError(t, auth.SaveUser(tempC, *user))
	return tempW.Header().Get("Set-Cookie")
}

func newRequest(method, path string, body interface{}) *http.Request {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) perform(t *testing.T, method, path string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(method, path, body)
	if c := sessionCookie(t, user); c != "" {
		req.Header.Set("Cookie", c)
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &v))
	return v
}

func errorOf(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, recorder)["error"]
}

func at(d time.Duration) string {
	return testNow.Add(d).Format(time.RFC3339)
}

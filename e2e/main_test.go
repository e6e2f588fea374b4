package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-event-participation/internal/api"
	"github.com/sanosuguru/go-event-participation/internal/api/handler"
	"github.com/sanosuguru/go-event-participation/internal/api/middleware"
	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/config"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-event-participation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-event-participation/internal/infrastructure/stats"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

const (
	adminUser     = "e2e-admin"
	adminPassword = "e2e-secret"
)

var (
	testServer  *TestServer
	testDB      *sqlx.DB
	redisClient *goredis.Client
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo *echo.Echo
}

// TestMain はE2Eテストのエントリポイント
// パッケージ全体で1回だけサーバーを起動する。DB未起動時はスキップ
func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(0)
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		os.Exit(0)
	}
	testDB = db
	if err := postgres.RunMigrations(db.DB, "../migrations"); err != nil {
		db.Close()
		os.Exit(1)
	}

	mt := metrics.NewWithRegistry(prometheus.NewRegistry())

	// Redis があれば分散ロックと閲覧数キャッシュも通す
	var (
		locker    transaction.Locker
		viewCache application.ViewCountCache
	)
	if rc, err := redisinfra.NewClient(&redisinfra.Config{Host: cfg.Redis.Host, Port: cfg.Redis.Port}); err == nil {
		redisClient = rc
		locker = redisinfra.NewEventLocker(redisinfra.NewLockManager(rc, mt), redisinfra.EventLockOptions{
			TTL: cfg.Admission.LockTTL, Retries: 20, RetryDelay: cfg.Admission.LockRetryDelay,
		})
		viewCache = redisinfra.NewViewCache(rc, cfg.Stats.CacheTTL)
	}

	statsServer := httptest.NewServer(http.HandlerFunc(fakeStats))
	views := application.NewViewCounter(stats.NewClient(statsServer.URL, statsServer.Client()), viewCache)

	txManager := postgres.NewTxManager(db)
	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewParticipationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(mt))

	handler.RegisterRoutes(e, handler.Handlers{
		Event: handler.NewEventHandler(application.NewEventService(
			txManager, eventRepo, requestRepo, userRepo, categoryRepo, views, mt, 3)),
		Participation: handler.NewParticipationHandler(application.NewParticipationService(
			txManager, requestRepo, eventRepo, userRepo, locker, mt, 5)),
		Admin:  handler.NewAdminHandler(application.NewDirectoryService(userRepo, categoryRepo)),
		Health: handler.NewHealthHandler(nil),
	}, middleware.BasicAuth(middleware.Credentials{User: adminUser, Password: adminPassword}))

	testServer = &TestServer{Echo: e}

	code := m.Run()

	cleanupTables()
	statsServer.Close()
	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()

	os.Exit(code)
}

// fakeStats は閲覧数統計サービスの代わりに、要求されたURIごとに閲覧数 42 を返す
func fakeStats(w http.ResponseWriter, r *http.Request) {
	var resp []stats.ViewStats
	for _, uri := range r.URL.Query()["uris"] {
		resp = append(resp, stats.ViewStats{App: "main-service", URI: uri, Hits: 42})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func cleanupTables() {
	testDB.Exec("TRUNCATE TABLE participation_requests, events, categories, users RESTART IDENTITY CASCADE")
}

// getTestServer は共有サーバーを取得（テスト前にテーブルをクリーンアップ）
func getTestServer(t *testing.T) *TestServer {
	t.Helper()
	if testServer == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	return testServer
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// AdminRequest はBasic認証付きで管理者APIを呼ぶ
func (s *TestServer) AdminRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	reqBody, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.SetBasicAuth(adminUser, adminPassword)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

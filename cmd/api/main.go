package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/schooney/backend-portal/internal/audit"
	"github.com/schooney/backend-portal/internal/auth"
	"github.com/schooney/backend-portal/internal/cart"
	"github.com/schooney/backend-portal/internal/checkout"
	"github.com/schooney/backend-portal/internal/common"
	"github.com/schooney/backend-portal/internal/config"
	"github.com/schooney/backend-portal/internal/credit"
	"github.com/schooney/backend-portal/internal/dashboard"
	db "github.com/schooney/backend-portal/internal/db"
	dbgen "github.com/schooney/backend-portal/internal/db/gen"
	"github.com/schooney/backend-portal/internal/events"
	"github.com/schooney/backend-portal/internal/health"
	"github.com/schooney/backend-portal/internal/invoice"
	"github.com/schooney/backend-portal/internal/lock"
	"github.com/schooney/backend-portal/internal/notify"
	"github.com/schooney/backend-portal/internal/obs"
	"github.com/schooney/backend-portal/internal/payment"
	"github.com/schooney/backend-portal/internal/ratelimit"
	"github.com/schooney/backend-portal/internal/receipt"
	"github.com/schooney/backend-portal/internal/resilience"
	"github.com/schooney/backend-portal/internal/security"
	"github.com/schooney/backend-portal/internal/student"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "portal")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "portal-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	var mailer common.EmailSender = common.NopEmailSender{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if envBool("DB_AUTO_MIGRATE", false) {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("run migrations")
		}
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "portal-api"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	queries := dbgen.New(pool)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	taskRedis, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url for task queue")
	}
	taskClient := asynq.NewClient(taskRedis)
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	authService, err := auth.NewService(auth.Config{
		Queries:         queries,
		Redis:           redisClient,
		Sender:          mailer,
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		ResetTokenTTL:   time.Hour,
		OtpTTL:          cfg.OtpTTL,
		OtpResendAfter:  cfg.OtpResendAfter,
		OtpMaxAttempts:  cfg.OtpMaxAttempts,
		Issuer:          "portal-api",
		Audience:        "portal-frontend",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}
	csrfHeader := envOrDefault("SECURE_CSRF_HEADER", "X-CSRF-Token")
	authHandler := &auth.Handler{
		Service:           authService,
		RefreshCookieName: envOrDefault("AUTH_REFRESH_COOKIE_NAME", "portal_refresh"),
		CSRFCookieName:    csrfHeader,
		CookieDomain:      cfg.CookieDomain,
		CookieSecure:      cfg.CookieSecure,
		CookieSameSite:    cfg.CookieSameSite,
	}
	authMiddleware := auth.Middleware{Service: authService}
	csrfGuard := security.CSRF{Header: csrfHeader}

	idem := common.Idem{R: redisClient, TTL: envDuration("IDEMPOTENCY_TTL", 24*time.Hour)}

	cartSvc := &cart.Service{Q: queries, TTL: envDuration("CART_TTL", 24*time.Hour)}
	cartHandler := &cart.Handler{Q: queries, Svc: cartSvc, Currency: cfg.Currency}

	invoiceSvc := &invoice.Service{Q: queries}
	invoiceHandler := &invoice.Handler{Svc: invoiceSvc}

	studentHandler := &student.Handler{Q: queries}

	creditSvc := &credit.Service{
		Q:       queries,
		Locker:  lock.Locker{R: redisClient},
		LockTTL: envDuration("CREDIT_LOCK_TTL", 15*time.Second),
	}
	creditHandler := &credit.Handler{Svc: creditSvc}

	providers := map[string]payment.Provider{
		"promptpay": payment.PromptPay{
			Secret:    cfg.PromptPaySecret,
			BillerID:  cfg.PromptPayBillerID,
			ExpirySec: int(cfg.ChargeTTL.Seconds()),
		},
		"gateway": payment.CardGateway{
			SecretKey: cfg.GatewaySecretKey,
			BaseURL:   cfg.GatewayBaseURL,
			Sandbox:   cfg.GatewaySandbox,
		},
	}
	paymentSvc := &payment.Service{
		Q:         queries,
		Providers: providers,
		ChargeTTL: cfg.ChargeTTL,
		Currency:  cfg.Currency,
	}
	paymentHandler := &payment.Handler{Svc: paymentSvc, Q: queries}

	receiptSvc := &receipt.Service{Q: queries}
	receiptHandler := &receipt.Handler{
		Svc:        receiptSvc,
		Q:          queries,
		SchoolName: cfg.SchoolName,
		Currency:   cfg.Currency,
	}

	notifyStore := notify.NewStore(queries)
	dispatcher := &notify.Dispatcher{
		Store: notifyStore,
		HTTP: &resilience.HTTPClient{
			Client:      notify.HttpClient(envInt("WEBHOOK_REQUEST_TIMEOUT_MS", 5000), envBool("WEBHOOK_ALLOW_INSECURE_TLS", false)),
			Breaker:     resilience.NewBreaker(envInt("CIRCUIT_WEBHOOK_MIN_REQUESTS", 10), envFloat("CIRCUIT_WEBHOOK_FAILURE_RATE", 0.5), envDuration("CIRCUIT_WEBHOOK_OPEN_FOR", 30*time.Second)).WithTarget("webhook-delivery").WithLogger(logger),
			MaxAttempts: 1,
			Timeout:     envDuration("WEBHOOK_REQUEST_TIMEOUT", 5*time.Second),
		},
		Tasks:              taskClient,
		DefaultMaxAttempts: envInt("WEBHOOK_MAX_ATTEMPTS", 7),
		Enabled:            envBool("WEBHOOK_DELIVERY_ENABLED", true),
		Replay:             notify.RedisReplayProtector{Client: redisClient},
		ReplayTTL:          envDuration("WEBHOOK_REPLAY_TTL", 24*time.Hour),
	}
	emailNotifier := notify.EmailNotifier{
		Mail:    mailer,
		Enabled: envBool("NOTIFY_EMAIL_ENABLED", true),
		From:    cfg.SMTPFrom,
	}
	bus := &events.Bus{
		Store:     queries,
		Scheduler: dispatcher,
		Notifiers: []events.Notifier{emailNotifier},
	}

	checkoutSvc := &checkout.Service{
		Q:          queries,
		Pool:       pool,
		CartSvc:    cartSvc,
		CreditSvc:  creditSvc,
		PaymentSvc: paymentSvc,
		ReceiptSvc: receiptSvc,
		Events:     bus,
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	paymentWebhook := payment.Webhook{
		Q:         queries,
		Pool:      pool,
		Providers: providers,
		Replay:    redisClient,
		ReplayTTL: envDuration("PAYMENT_WEBHOOK_REPLAY_TTL", 48*time.Hour),
		Receipts:  receiptSvc,
		Credit:    creditSvc,
		Events:    bus,
	}

	dashboardSvc := &dashboard.Service{Q: queries, R: redisClient, TTL: envDuration("DASHBOARD_CACHE_TTL", 30*time.Second)}
	dashboardHandler := &dashboard.Handler{Svc: dashboardSvc}

	auditSvc := &audit.Service{Store: queries, Enabled: envBool("AUDIT_ENABLED", true), SamplingRate: envFloat("AUDIT_SAMPLING_RATE", 1)}
	auditRecorder := audit.HTTPRecorder{
		Service: auditSvc,
		OnError: func(err error) { logger.Error().Err(err).Msg("record audit entry") },
	}
	auditHandler := audit.Handler{Store: queries}

	notifyAdmin := &notify.AdminHandler{Store: notifyStore, Disp: dispatcher}

	rateLimiter, err := ratelimit.NewLimiter(redisClient, "rl")
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise rate limiter store")
	}
	authLimiter := ratelimit.Handler{
		Limiter: rateLimiter,
		Config: ratelimit.Config{
			Key:    func(r *http.Request) string { return "auth:" + common.ClientIP(r) },
			Window: envDuration("RATE_LIMIT_AUTH_WINDOW", time.Minute),
			Max:    envInt("RATE_LIMIT_AUTH_MAX", 20),
		},
		OnError: func(err error) { logger.Error().Err(err).Msg("rate limiter") },
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: envBool("SECURE_HEADERS_ENABLED", true)}.Middleware)
	r.Use(security.BodyLimit{Max: int64(envInt("SECURE_MAX_BODY_BYTES", 1<<20))}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", true) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{db: pool, redis: redisClient},
		DBTimeout:    envDurationMillis("HEALTH_READY_DB_TIMEOUT_MS", 500),
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/auth", func(a chi.Router) {
			a.Use(authLimiter.Middleware)
			a.Post("/register", authHandler.Register)
			a.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "auth.login", EntityType: "auth"})).Post("/login", authHandler.Login)
			a.Post("/otp/verify", authHandler.VerifyOtp)
			a.Post("/otp/resend", authHandler.ResendOtp)
			a.With(csrfGuard.Middleware).Post("/refresh", authHandler.Refresh)
			a.With(csrfGuard.Middleware).Post("/logout", authHandler.Logout)
			a.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "auth.password_forgot", EntityType: "auth"})).Post("/password/forgot", authHandler.ForgotPassword)
			a.With(auditRecorder.Middleware(audit.HTTPConfig{Action: "auth.password_reset", EntityType: "auth"})).Post("/password/reset", authHandler.ResetPassword)

			a.Group(func(protected chi.Router) {
				protected.Use(authMiddleware.RequireAuth)
				protected.Get("/me", authHandler.Me)
			})
		})

		v.Group(func(g chi.Router) {
			g.Use(authMiddleware.RequireAuth)

			g.Get("/students", studentHandler.List)
			g.Get("/students/{studentID}/invoices", invoiceHandler.ListByStudent)

			g.Get("/invoices", invoiceHandler.List)
			g.Get("/invoices/{invoiceID}", invoiceHandler.Get)

			g.Route("/cart", func(c chi.Router) {
				c.Get("/", cartHandler.Get)
				c.Group(func(w chi.Router) {
					w.Use(idem.Middleware)
					w.Post("/items", cartHandler.AddItem)
					w.Delete("/items/{invoiceID}/{studentID}", cartHandler.RemoveItem)
				})
			})

			g.Get("/credit", creditHandler.Get)

			g.With(idem.Middleware, auditRecorder.Middleware(audit.HTTPConfig{Action: "checkout", EntityType: "payment"})).Post("/checkout", checkoutHandler.Checkout)

			g.Get("/payment-methods", paymentHandler.Methods)
			g.Get("/payments", paymentHandler.List)
			g.Get("/payments/{paymentID}", paymentHandler.Get)

			g.Get("/receipts", receiptHandler.List)
			g.Get("/receipts/{receiptID}", receiptHandler.Get)
			g.Get("/receipts/{receiptID}/document", receiptHandler.Document)

			g.Get("/dashboard", dashboardHandler.Summary)
			g.Get("/audit", auditHandler.List)
		})

		v.Route("/admin", func(admin chi.Router) {
			admin.Use(requireAdminToken(envOrDefault("ADMIN_API_TOKEN", "")))
			admin.Post("/webhooks", notifyAdmin.CreateEndpoint)
			admin.Put("/webhooks/{id}", notifyAdmin.UpdateEndpoint)
			admin.Get("/webhooks", notifyAdmin.ListEndpoints)
			admin.Delete("/webhooks/{id}", notifyAdmin.DeleteEndpoint)
			admin.Get("/webhook-deliveries", notifyAdmin.ListDeliveries)
			admin.Post("/webhook-deliveries/{id}/replay", notifyAdmin.ReplayDelivery)
		})

		v.Post("/webhooks/payments/{provider}", paymentWebhook.Handle)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case <-stopCtx.Done():
		logger.Info().Msg("shutdown signal received")
		health.SetReady(false)
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), envDuration("SHUTDOWN_GRACE", 15*time.Second))
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
		}
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

// requireAdminToken guards operational endpoints with a shared bearer token.
// With no token configured the routes are disabled outright.
func requireAdminToken(token string) func(http.Handler) http.Handler {
	token = strings.TrimSpace(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "admin API disabled", nil)
				return
			}
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) || subtle.ConstantTimeCompare([]byte(header[len(prefix):]), []byte(token)) != 1 {
				common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type readinessChecker struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func (c readinessChecker) PingDB(ctx context.Context, timeout time.Duration) error {
	if c.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.Ping(ctx)
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/block", pprof.Handler("block"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	mux.Handle("/threadcreate", pprof.Handler("threadcreate"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

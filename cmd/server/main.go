package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/modelgate/safegate/internal/config"
	"github.com/modelgate/safegate/internal/errors"
	"github.com/modelgate/safegate/internal/explain"
	"github.com/modelgate/safegate/internal/fairness"
	"github.com/modelgate/safegate/internal/monitoring"
	"github.com/modelgate/safegate/internal/ratelimit"
	"github.com/modelgate/safegate/internal/safety"
	"github.com/modelgate/safegate/internal/types"
)

const serviceVersion = "0.2.0"

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration: optional file, then environment overrides
	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			slog.Error("Failed to load configuration", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg = config.LoadFromEnv(cfg)

	port := getEnvOrDefault("PORT", "8080")

	// Rate limiting: Redis sliding window with in-memory fallback
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}
	redisClient, err := ratelimit.NewRedisClient(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), redisDB)
	if err != nil {
		slog.Warn("Redis connection failed, continuing with in-memory rate limiting", "error", err)
	}
	defer redisClient.Close()

	limitCfg := ratelimit.DefaultConfig()
	if v := os.Getenv("RATE_LIMIT_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limitCfg.IPLimitPerMin = n
		}
	}

	appMetrics := monitoring.NewMetrics()
	limiter := ratelimit.NewRateLimiter(redisClient, limitCfg, appMetrics)

	r := setupRouter(cfg, appMetrics, limiter)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", port, "version", serviceVersion)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// loggingNotifier forwards fired alerts to the structured log
type loggingNotifier struct {
	logger *monitoring.Logger
}

func (n *loggingNotifier) Notify(alert monitoring.Alert) error {
	n.logger.AlertLogger(alert)
	return nil
}

// setupRouter wires the core components behind the HTTP surface. The gate and
// monitor are shared across requests; both guard their own state internally.
func setupRouter(cfg config.Config, appMetrics *monitoring.Metrics, limiter *ratelimit.RateLimiter) *gin.Engine {
	appLogger := monitoring.NewLogger()

	gate := safety.NewGate(safety.GateConfig{
		ConfidenceThreshold: cfg.Safety.ConfidenceThreshold,
		DriftThreshold:      cfg.Safety.DriftThreshold,
		AllowWarning:        cfg.Safety.AllowWarning,
	})

	var notifier monitoring.AlertNotifier
	if cfg.Monitoring.EnableAlerts {
		notifier = &loggingNotifier{logger: appLogger}
	}
	monitor := monitoring.NewPerformanceMonitor(cfg.Monitoring.AlertThresholds, notifier)

	fairnessAnalyzer := fairness.NewAnalyzer(cfg.Safety.FairnessThreshold)
	explainAnalyzer := explain.NewAnalyzer()

	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(monitoring.SecurityHeadersMiddleware())
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	if limiter != nil {
		r.Use(limiter.IPRateLimitMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Model Safety Gate API",
			"version": serviceVersion,
			"status":  "running",
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   serviceVersion,
		})
	})

	r.GET("/stats", func(c *gin.Context) {
		stats := appMetrics.GetStats()
		if limiter != nil {
			stats["rate_limiter"] = limiter.GetStats()
		}
		c.JSON(http.StatusOK, stats)
	})

	r.POST("/evaluate", func(c *gin.Context) {
		var req types.EvaluateRequest
		if err := c.BindJSON(&req); err != nil {
			abortWithError(c, errors.NewValidationError(err.Error()))
			return
		}

		dataset := req.DatasetName
		if dataset == "" {
			dataset = "default"
		}

		start := time.Now()
		assessment := gate.Evaluate(req.Predictions, req.ReferenceData, req.CurrentData, dataset)
		shouldDeploy := gate.ShouldDeploy(assessment)

		appMetrics.IncrementEvaluation()
		appLogger.EvaluationLogger(dataset, assessment.OverallRisk, string(assessment.RiskLevel), shouldDeploy, time.Since(start))

		c.JSON(http.StatusOK, types.EvaluateResponse{
			OverallRisk:     assessment.OverallRisk,
			RiskLevel:       assessment.RiskLevel,
			ComponentRisks:  assessment.ComponentRisks,
			Recommendations: assessment.Recommendations,
			ShouldDeploy:    shouldDeploy,
			Timestamp:       time.Now(),
		})
	})

	r.POST("/metrics", func(c *gin.Context) {
		var req types.MetricsRequest
		if err := c.BindJSON(&req); err != nil {
			abortWithError(c, errors.NewValidationError(err.Error()))
			return
		}

		snapshot, err := monitor.Record(monitoring.Sample{
			Accuracy:   req.Accuracy,
			Precision:  req.Precision,
			Recall:     req.Recall,
			F1Score:    req.F1Score,
			LatencyMS:  req.LatencyMS,
			Throughput: req.Throughput,
			ErrorRate:  req.ErrorRate,
		})
		if err != nil {
			abortWithError(c, errors.ToAppError(err))
			return
		}

		appMetrics.IncrementRecordedSnapshots()

		c.JSON(http.StatusOK, gin.H{
			"status":    "recorded",
			"timestamp": snapshot.Timestamp,
			"metrics":   snapshot.Sample,
		})
	})

	r.GET("/metrics/summary", func(c *gin.Context) {
		lastN := 0
		if v := c.Query("last_n"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				abortWithError(c, errors.NewValidationError("last_n must be a non-negative integer"))
				return
			}
			lastN = n
		}

		c.JSON(http.StatusOK, gin.H{
			"summary":   monitor.Summary(lastN),
			"timestamp": time.Now(),
		})
	})

	r.GET("/alerts", func(c *gin.Context) {
		var severity monitoring.AlertSeverity
		if v := c.Query("severity"); v != "" {
			parsed, err := monitoring.ParseAlertSeverity(v)
			if err != nil {
				abortWithError(c, errors.NewValidationError(err.Error()))
				return
			}
			severity = parsed
		}

		limit := 10
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				abortWithError(c, errors.NewValidationError("limit must be a non-negative integer"))
				return
			}
			limit = n
		}

		c.JSON(http.StatusOK, gin.H{
			"alerts": monitor.RecentAlerts(severity, limit),
		})
	})

	r.POST("/fairness/analyze", func(c *gin.Context) {
		var req types.FairnessRequest
		if err := c.BindJSON(&req); err != nil {
			abortWithError(c, errors.NewValidationError(err.Error()))
			return
		}

		reports, err := fairnessAnalyzer.ComprehensiveCheck(req.Predictions, req.ProtectedGroups, req.TrueLabels, req.PrivilegedGroup)
		if err != nil {
			abortWithError(c, errors.NewValidationError(err.Error()))
			return
		}

		c.JSON(http.StatusOK, gin.H{"reports": reports})
	})

	r.POST("/explain", func(c *gin.Context) {
		var req types.ExplainRequest
		if err := c.BindJSON(&req); err != nil {
			abortWithError(c, errors.NewValidationError(err.Error()))
			return
		}

		topK := req.TopK
		if topK <= 0 {
			topK = 5
		}

		importances := explainAnalyzer.CalculateFeatureImportance(req.FeatureValues, req.Predictions)
		if topK < len(importances) {
			importances = importances[:topK]
		}

		c.JSON(http.StatusOK, gin.H{"feature_importances": importances})
	})

	r.GET("/audit-log", func(c *gin.Context) {
		log := gate.AuditLog()
		c.JSON(http.StatusOK, gin.H{
			"audit_log": log,
			"count":     len(log),
		})
	})

	return r
}

func abortWithError(c *gin.Context, appErr *errors.AppError) {
	errors.LogError(c, appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

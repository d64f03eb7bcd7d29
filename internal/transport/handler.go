package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/sobel-inspector-go/internal/config"
	apperrors "github.com/anime-shed/sobel-inspector-go/internal/errors"
	"github.com/anime-shed/sobel-inspector-go/internal/logger"
	"github.com/anime-shed/sobel-inspector-go/internal/observer"
	"github.com/anime-shed/sobel-inspector-go/internal/service"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
	"github.com/anime-shed/sobel-inspector-go/internal/storage"
	"github.com/anime-shed/sobel-inspector-go/pkg/models"
	"github.com/anime-shed/sobel-inspector-go/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MetricsProvider exposes filter counters for the /metrics route
type MetricsProvider interface {
	Snapshot() observer.MetricsSnapshot
}

// Response headers set by POST /edges
const (
	HeaderEdgeMean       = "X-Edge-Mean"
	HeaderProcessingTime = "X-Processing-Time-Ms"
	HeaderWorkers        = "X-Workers"
)

type handler struct {
	svc       service.EdgeService
	metrics   MetricsProvider
	validator *validation.LocationValidator
	cfg       *config.Config
}

// NewHandler builds the gin engine serving the edge filter API.
func NewHandler(svc service.EdgeService, metrics MetricsProvider, validator *validation.LocationValidator, cfg *config.Config) http.Handler {
	h := &handler{svc: svc, metrics: metrics, validator: validator, cfg: cfg}
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/threads", h.getThreads)
	r.PUT("/threads", h.putThreads)
	r.POST("/edges", h.filterUpload)
	r.POST("/edges/analyze", h.analyzeLocation)
	r.GET("/metrics", h.getMetrics)

	return r
}

func (h *handler) getThreads(c *gin.Context) {
	c.JSON(http.StatusOK, models.ThreadsResponse{
		Threads:    h.svc.Threads(),
		MaxWorkers: sobel.MaxWorkers(),
	})
}

func (h *handler) putThreads(c *gin.Context) {
	var req models.ThreadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	threads := h.svc.SetThreads(*req.Threads)
	logger.WithFields(logrus.Fields{
		"requested": *req.Threads,
		"threads":   threads,
		"ip":        c.ClientIP(),
	}).Info("Filter threads updated")

	c.JSON(http.StatusOK, models.ThreadsResponse{
		Threads:    threads,
		MaxWorkers: sobel.MaxWorkers(),
	})
}

// filterUpload filters an uploaded image and returns the encoded edge image.
// The body is either the raw image or a multipart form with an "image" file.
func (h *handler) filterUpload(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	data, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "image too large", err)
			return
		}
		respondError(c, http.StatusBadRequest, "invalid upload", err)
		return
	}

	img, sourceFormat, err := storage.Decode(bytes.NewReader(data))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image", err)
		return
	}

	format := storage.NormalizeFormat(c.DefaultQuery("format", h.cfg.OutputFormat))
	result, err := h.svc.DetectImage(ctx, img)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "edge detection failed", err)
		return
	}

	var out bytes.Buffer
	if err := storage.Encode(&out, result.Image(), format); err != nil {
		if errors.Is(err, storage.ErrUnsupportedFormat) {
			respondError(c, http.StatusBadRequest, "unsupported output format", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to encode edge image", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"source_format":      sourceFormat,
		"output_format":      format,
		"width":              result.Width,
		"height":             result.Height,
		"workers":            result.Workers,
		"processing_time_ms": result.Duration.Milliseconds(),
	}).Info("Edge image produced")

	c.Header(HeaderEdgeMean, strconv.FormatFloat(result.Stats.Mean, 'f', 3, 64))
	c.Header(HeaderProcessingTime, strconv.FormatFloat(float64(result.Duration.Microseconds())/1000.0, 'f', 3, 64))
	c.Header(HeaderWorkers, strconv.Itoa(result.Workers))
	c.Data(http.StatusOK, storage.ContentType(format), out.Bytes())
}

func readUpload(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return nil, err
		}
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

// analyzeLocation filters a remote or stored image and optionally writes the
// edge image back to storage
func (h *handler) analyzeLocation(c *gin.Context) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	// Log request start
	logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}).Info("Processing edge analysis request")

	var req models.EdgeAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	if err := h.validator.ValidateLocation(req.URL); err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid image location", err)
		return
	}
	if req.OutputURL != "" {
		if err := h.validator.ValidateLocation(req.OutputURL); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid output location", err)
			return
		}
	}

	result, err := h.svc.DetectLocation(ctx, req.URL)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "edge analysis failed", err)
		return
	}

	if req.OutputURL != "" {
		if err := h.svc.Store(ctx, result, req.OutputURL, req.Format); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to store edge image", err)
			return
		}
	}

	duration := time.Since(startTime)
	logger.WithFields(logrus.Fields{
		"url":                req.URL,
		"output_url":         req.OutputURL,
		"workers":            result.Workers,
		"edge_mean":          result.Stats.Mean,
		"processing_time_ms": duration.Milliseconds(),
	}).Info("Edge analysis completed successfully")

	c.JSON(http.StatusOK, models.EdgeAnalysisResponse{
		ImageURL:          req.URL,
		OutputURL:         req.OutputURL,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		Width:             result.Width,
		Height:            result.Height,
		Workers:           result.Workers,
		ProcessingTimeSec: result.Duration.Seconds(),
		Stats:             result.Stats,
	})
}

func (h *handler) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"filters": h.metrics.Snapshot(),
		"threads": h.svc.Threads(),
	})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	resp := models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Details = appErr.Details
	}
	c.AbortWithStatusJSON(code, resp)
}

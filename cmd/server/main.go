package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/go_threeset_similarity/pkg/match"
	"github.com/baditaflorin/go_threeset_similarity/pkg/threeset"
	"github.com/baditaflorin/l"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 1024 * 1024 // 1MB; inputs are short titles
	DefaultConcurrency    = 0           // 0 means use GOMAXPROCS
)

var (
	// Similarity comparator
	comparator *threeset.Comparator

	// Batch matcher for candidate ranking
	matcher *match.Matcher

	// Logger instance
	logger l.Logger
)

// SimilarityRequest represents a similarity computation request
type SimilarityRequest struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// SimilarityResponse represents a similarity computation response
type SimilarityResponse struct {
	Score           float64                `json:"score"`
	Passed          bool                   `json:"passed"`
	FirstWordCount  int                    `json:"first_word_count"`
	SecondWordCount int                    `json:"second_word_count"`
	MatchedPairs    int                    `json:"matched_pairs"`
	Threshold       float64                `json:"threshold"`
	Details         map[string]interface{} `json:"details,omitempty"`
}

// MatchRequest represents a candidate ranking request
type MatchRequest struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	MinScore   float64  `json:"min_score,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// MatchResponse represents a candidate ranking response
type MatchResponse struct {
	Matches []MatchEntry `json:"matches"`
}

// MatchEntry is one ranked candidate
type MatchEntry struct {
	Index     int     `json:"index"`
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
	Passed    bool    `json:"passed"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	port := flag.Int("port", DefaultPort, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", DefaultConcurrency, "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	threshold := flag.Float64("threshold", 0.75, "Similarity threshold for pass/fail")
	warmUp := flag.Bool("warm-up", true, "Perform system warm-up on startup")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	var err error
	logger, err = createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting similarity HTTP server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
	)

	initComparators(*threshold, *warmUp)

	server := &fasthttp.Server{
		Handler:               requestHandler,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                nil, // we'll handle logging ourselves
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Server listening", "address", fmt.Sprintf(":%d", *port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// createLogger builds the process logger, writing to the given file or stdout.
func createLogger(logFile string) (l.Logger, error) {
	output := os.Stdout
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		output = f
	}

	return l.NewStandardFactory().CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  logFile != "",
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,
		MaxFileSize: 10 * 1024 * 1024,
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
}

// initComparators initializes the comparator and matcher instances
func initComparators(threshold float64, warmUp bool) {
	var err error

	opts := []threeset.ComparatorOption{
		threeset.WithThreshold(threshold),
		threeset.WithFastNormalizer(),
		threeset.WithLogger(logger),
	}
	if warmUp {
		opts = append(opts, threeset.WithWarmUp(true))
	}

	comparator, err = threeset.New(opts...)
	if err != nil {
		logger.Error("Failed to initialize comparator", "error", err)
		os.Exit(1)
	}

	matcher, err = match.New(
		match.WithThreshold(threshold),
		match.WithFastNormalizer(),
		match.WithLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to initialize matcher", "error", err)
		os.Exit(1)
	}

	logger.Info("Comparators initialized successfully",
		"warm_up", warmUp,
		"cpus", runtime.NumCPU(),
	)
}

// requestHandler is the main fasthttp request handler
func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "ThreeSetSimilarityServer")

	switch string(ctx.Path()) {
	case "/health":
		handleHealthCheck(ctx)
	case "/similarity":
		handleSimilarity(ctx)
	case "/match":
		handleMatch(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	duration := time.Since(startTime)
	logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", duration,
	)
}

// handleHealthCheck responds to health check requests
func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	response := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	writeJSONResponse(ctx, response)
}

// handleSimilarity handles similarity requests
func handleSimilarity(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req SimilarityRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	// Empty inputs are valid by contract; no validation beyond JSON shape.
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := comparator.Compute(c, req.First, req.Second)

	response := SimilarityResponse{
		Score:           result.Score,
		Passed:          result.Passed,
		FirstWordCount:  result.FirstWordCount,
		SecondWordCount: result.SecondWordCount,
		MatchedPairs:    result.MatchedPairs,
		Threshold:       result.Threshold,
		Details:         result.Details,
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, response)
}

// handleMatch handles candidate ranking requests
func handleMatch(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req MatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	if len(req.Candidates) == 0 {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "At least one candidate is required")
		return
	}

	m := matcher
	if req.MinScore > 0 || req.Limit > 0 {
		// Per-request filter settings need a dedicated instance.
		var err error
		m, err = match.New(
			match.WithFastNormalizer(),
			match.WithLogger(logger),
			match.WithMinScore(req.MinScore),
			match.WithLimit(req.Limit),
		)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			writeJSONError(ctx, "Internal server error")
			return
		}
	}

	c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	matches := m.Rank(c, req.Query, req.Candidates)

	response := MatchResponse{Matches: make([]MatchEntry, 0, len(matches))}
	for _, entry := range matches {
		response.Matches = append(response.Matches, MatchEntry{
			Index:     entry.Index,
			Candidate: entry.Candidate,
			Score:     entry.Score,
			Passed:    entry.Passed,
		})
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, response)
}

// Helper functions

// writeJSONResponse writes a JSON response to the context using a pooled buffer
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.Write(buf.B)
}

// writeJSONError writes a JSON error response to the context
func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetBodyString(`{"error":"internal server error"}`)
		return
	}
	ctx.SetBody(response)
}

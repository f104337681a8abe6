package web

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"runclub/internal/adapters/email"
	"runclub/internal/adapters/http/middleware"
	"runclub/internal/adapters/http/perf"
	attendanceStore "runclub/internal/adapters/storage/attendance"
	memberStore "runclub/internal/adapters/storage/member"
	missionStore "runclub/internal/adapters/storage/mission"
	recordStore "runclub/internal/adapters/storage/record"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore     memberStore.Store
	RecordStore     recordStore.Store
	MissionStore    missionStore.Store
	AttendanceStore attendanceStore.Store
}

// Options configures the middleware chain.
type Options struct {
	StaticDir      string
	CSRFKey        []byte // nil generates a per-process key
	SecureCookies  bool
	TrustedOrigins []string
	RatePerSecond  float64
	RateBurst      int
	SlowRequest    time.Duration // zero uses middleware.DefaultSlowRequest
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender = email.NewNoopSender()

// Email configuration
var (
	emailFromAddress string
	emailReplyTo     string
	digestRecipients []string
)

// timeNow is a variable for testability.
var timeNow = time.Now

// SetEmailSender sets the sender and addresses used for progress digests.
func SetEmailSender(sender email.Sender, from, replyTo string, recipients []string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
	digestRecipients = recipients
}

// NewMux wires HTTP handlers for the app. Background upkeep stops when ctx is done.
func NewMux(ctx context.Context, s *Stores, collector *perf.Collector, opts Options) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(opts.StaticDir)))
	}
	registerRoutes(mux)

	key := opts.CSRFKey
	if key == nil {
		key = make([]byte, 32)
		rand.Read(key)
		slog.Warn("csrf_key_generated", "detail", "form sessions will not survive a restart")
	}
	limiter := middleware.NewRateLimiter(opts.RatePerSecond, opts.RateBurst)
	go limiter.SweepEvery(ctx, time.Minute)

	// Timing -> RateLimit -> Recover -> CSRF -> SecurityHeaders -> mux
	return middleware.Chain(middleware.CaptureRoute(mux),
		middleware.SecurityHeaders,
		middleware.CSRF(key, opts.SecureCookies, opts.TrustedOrigins),
		middleware.Recover,
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequest),
	)
}

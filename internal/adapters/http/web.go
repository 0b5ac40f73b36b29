package web

import (
	"crypto/rand"
	"log"
	"log/slog"
	"net/http"
	"time"

	"practiceplan/internal/adapters/http/middleware"
	"practiceplan/internal/adapters/http/perf"
	announcementStore "practiceplan/internal/adapters/storage/announcement"
	planStore "practiceplan/internal/adapters/storage/plan"
	tagStore "practiceplan/internal/adapters/storage/tag"
	templateStore "practiceplan/internal/adapters/storage/template"
	"practiceplan/internal/application/sessionfeed"
)

// Stores holds all storage dependencies.
type Stores struct {
	PlanStore         planStore.Store
	TagStore          tagStore.Store
	TemplateStore     templateStore.Store
	PeriodStore       templateStore.PeriodStore
	AnnouncementStore announcementStore.Store
}

// Options configures the middleware chain and the session stream.
type Options struct {
	CSRFKey            []byte // 32 bytes
	SecureCookies      bool
	TrustedOrigins     []string
	RateLimitPerSecond int
	SlowRequestMs      int
	TickInterval       time.Duration
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// tickInterval paces /api/session/stream updates.
var tickInterval = sessionfeed.DefaultInterval

// NewMux wires HTTP handlers for the app. The returned closer stops the
// rate limiter's background sweep.
func NewMux(s *Stores, collector *perf.Collector, opts Options) (http.Handler, func()) {
	stores = s
	perfCollector = collector
	if opts.TickInterval > 0 {
		tickInterval = opts.TickInterval
	}
	rate := opts.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}

	csrfKey, err := csrfKeyOrRandom(opts.CSRFKey)
	if err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Request order: Timing -> RateLimit -> CSRF -> SecurityHeaders -> Mux
	h := middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, opts.SecureCookies, opts.TrustedOrigins),
		middleware.RateLimit(limiter),
		middleware.Timing(collector, opts.SlowRequestMs),
	)
	return h, limiter.Close
}

// randRead is swapped in tests.
var randRead = rand.Read

// csrfKeyOrRandom returns key when it is 32 bytes, otherwise a random key
// that only lives as long as the process.
func csrfKeyOrRandom(key []byte) ([]byte, error) {
	if len(key) == 32 {
		return key, nil
	}
	generated := make([]byte, 32)
	if _, err := randRead(generated); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_generated", "reason", "no 32-byte key configured; form tokens will not survive restart")
	return generated, nil
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/api/perf", handlePerf)

	mux.HandleFunc("/api/plans", handlePlans)
	mux.HandleFunc("/api/plans/item", handlePlanItem)
	mux.HandleFunc("/api/plans/series", handlePlanSeries)
	mux.HandleFunc("/api/plans/by-tag", handlePlansByTag)

	mux.HandleFunc("/api/session", handleSession)
	mux.HandleFunc("/api/session/current", handleSessionCurrent)
	mux.HandleFunc("/api/session/stream", handleSessionStream)
	mux.HandleFunc("/api/week", handleWeek)

	mux.HandleFunc("/api/periods", handlePeriods)
	mux.HandleFunc("/api/templates", handleTemplates)
	mux.HandleFunc("/api/templates/item", handleTemplateItem)
	mux.HandleFunc("/api/templates/apply", handleTemplateApply)
	mux.HandleFunc("/api/templates/from-plan", handleTemplateFromPlan)
	mux.HandleFunc("/api/templates/import", handleTemplateImport)
	mux.HandleFunc("/api/templates/export", handleTemplateExport)

	mux.HandleFunc("/api/announcements", handleAnnouncements)
	mux.HandleFunc("/api/announcements/item", handleAnnouncementItem)
	mux.HandleFunc("/api/announcements/publish", handleAnnouncementPublish)
	mux.HandleFunc("/api/announcements/pin", handleAnnouncementPin)

	mux.HandleFunc("/api/tags", handleTags)
	mux.HandleFunc("/api/tags/item", handleTagItem)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	web "practiceplan/internal/adapters/http"
	"practiceplan/internal/adapters/http/perf"
	"practiceplan/internal/adapters/storage"
	announcementStore "practiceplan/internal/adapters/storage/announcement"
	planStore "practiceplan/internal/adapters/storage/plan"
	tagStore "practiceplan/internal/adapters/storage/tag"
	templateStore "practiceplan/internal/adapters/storage/template"
	"practiceplan/internal/application/projections"
	"practiceplan/internal/application/sessionfeed"
	"practiceplan/internal/domain/practice"
	"practiceplan/internal/platform/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "practiceplan",
		Short:         "Practice plan scheduler and live session timer",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newSessionCmd(&configPath))
	root.AddCommand(newWeekCmd(&configPath))
	return root
}

// app is the opened database and the stores built on it.
type app struct {
	cfg       config.Config
	db        *storage.TimedDB
	collector *perf.Collector
	stores    *web.Stores
}

func (a *app) Close() error {
	return a.db.Close()
}

// loadApp reads config, installs the logger, opens and migrates the database.
func loadApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	db, err := storage.Open(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector).WithSlowThreshold(cfg.SlowQueryMs)
	return &app{
		cfg:       cfg,
		db:        timedDB,
		collector: collector,
		stores: &web.Stores{
			PlanStore:         planStore.NewSQLiteStore(timedDB),
			TagStore:          tagStore.NewSQLiteStore(timedDB),
			TemplateStore:     templateStore.NewSQLiteStore(timedDB),
			PeriodStore:       templateStore.NewSQLitePeriodStore(timedDB),
			AnnouncementStore: announcementStore.NewSQLiteStore(timedDB),
		},
	}, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			handler, closeMux := web.NewMux(a.stores, a.collector, web.Options{
				CSRFKey:            a.cfg.CSRFKeyBytes(),
				SecureCookies:      a.cfg.SecureCookies,
				TrustedOrigins:     a.cfg.TrustedOrigins,
				RateLimitPerSecond: a.cfg.RateLimitPerSecond,
				SlowRequestMs:      a.cfg.SlowRequestMs,
				TickInterval:       a.cfg.TickInterval,
			})
			defer closeMux()

			srv := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("server_start", "version", version, "addr", a.cfg.Addr, "env", a.cfg.Env,
					"schema", storage.LatestSchemaVersion())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("server_shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			v, err := storage.SchemaVersion(a.db.RawDB())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			return nil
		},
	}
}

func newSessionCmd(configPath *string) *cobra.Command {
	var at string
	var follow bool

	session := &cobra.Command{
		Use:   "session <plan-id>",
		Short: "Show where a practice is at an instant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instant := time.Now()
			if strings.TrimSpace(at) != "" {
				if follow {
					return fmt.Errorf("--at and --follow cannot be combined")
				}
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				instant = t
			}

			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if !follow {
				res, err := projections.QueryGetSessionState(cmd.Context(), projections.GetSessionStateQuery{
					PlanID: args[0], At: instant,
				}, projections.GetSessionStateDeps{PlanStore: a.stores.PlanStore})
				if err != nil {
					return err
				}
				writeSessionLine(out, res)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			feed := sessionfeed.Feed{
				PlanID:   args[0],
				Interval: a.cfg.TickInterval,
				Load: func(ctx context.Context, id string) (practice.Plan, error) {
					return a.stores.PlanStore.GetByID(ctx, id)
				},
				Collector: a.collector,
			}
			run := sessionfeed.Start(ctx, feed, func(u sessionfeed.Update) error {
				writeSessionLine(out, u.State)
				if u.State.Phase == projections.PhaseFinished {
					return sessionfeed.ErrStopped
				}
				return nil
			})
			select {
			case <-ctx.Done():
			case <-run.Done():
			}
			return run.Stop()
		},
	}
	session.Flags().StringVar(&at, "at", "", "evaluate at this RFC3339 instant instead of now")
	session.Flags().BoolVar(&follow, "follow", false, "print an update every tick until the practice ends")
	return session
}

// writeSessionLine prints one human-readable line for a session evaluation.
func writeSessionLine(w io.Writer, r projections.GetSessionStateResult) {
	ts := r.At.Format("15:04:05")
	switch r.Phase {
	case projections.PhaseUpcoming:
		_, _ = fmt.Fprintf(w, "%s %s starts in %s", ts, r.Plan.Title, practice.FormatTimer(r.StartsInSec))
		if r.Next != nil {
			_, _ = fmt.Fprintf(w, " next=%q", r.Next.Name)
		}
	case projections.PhaseFinished:
		_, _ = fmt.Fprintf(w, "%s %s finished", ts, r.Plan.Title)
	case projections.PhaseActivity:
		_, _ = fmt.Fprintf(w, "%s %s [%d/%d] %q remaining=%s elapsed=%s progress=%.0f%%",
			ts, r.Plan.Title, *r.State.CurrentActivityIndex+1, len(r.Plan.Activities), r.Current.Name,
			r.RemainingText, r.ElapsedText, r.State.ProgressFraction*100)
		if r.Next != nil {
			_, _ = fmt.Fprintf(w, " next=%q", r.Next.Name)
		}
	default:
		_, _ = fmt.Fprintf(w, "%s %s between activities elapsed=%s", ts, r.Plan.Title, r.ElapsedText)
	}
	_, _ = fmt.Fprintln(w)
}

func newWeekCmd(configPath *string) *cobra.Command {
	var teamID, date, tz string

	week := &cobra.Command{
		Use:   "week --team <id>",
		Short: "Print a team's plans for the week, Monday first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(teamID) == "" {
				return fmt.Errorf("--team is required")
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("--tz: %w", err)
			}
			anchor := time.Now().In(loc)
			if date != "" {
				anchor, err = time.ParseInLocation("2006-01-02", date, loc)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
			}

			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := projections.QueryGetWeek(cmd.Context(), projections.GetWeekQuery{TeamID: teamID, Date: anchor},
				projections.GetWeekDeps{PlanStore: a.stores.PlanStore})
			if err != nil {
				return err
			}
			writeWeek(cmd.OutOrStdout(), res)
			return nil
		},
	}
	week.Flags().StringVar(&teamID, "team", "", "team id")
	week.Flags().StringVar(&date, "date", "", "any day in the week (YYYY-MM-DD), defaults to today")
	week.Flags().StringVar(&tz, "tz", "UTC", "IANA time zone that decides where days begin")
	return week
}

func writeWeek(w io.Writer, res projections.GetWeekResult) {
	_, _ = fmt.Fprintf(w, "week of %s (%s)\n", res.WeekStart.Format("Mon 2 Jan 2006"), res.TotalText)
	for _, d := range res.Days {
		if len(d.Plans) == 0 {
			_, _ = fmt.Fprintf(w, "%s  -\n", d.Date.Format("Mon 02"))
			continue
		}
		_, _ = fmt.Fprintf(w, "%s  %s\n", d.Date.Format("Mon 02"), d.TotalText)
		for _, p := range d.Plans {
			_, _ = fmt.Fprintf(w, "  %s-%s  %s  (%s)\n", p.StartTime.In(d.Date.Location()).Format("15:04"),
				p.EndTime.In(d.Date.Location()).Format("15:04"), p.Title, p.ID)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/rcdesk/rentcase/internal/adapter/fsm"
	"github.com/rcdesk/rentcase/internal/adapter/otel"
	"github.com/rcdesk/rentcase/internal/adapter/river"
	"github.com/rcdesk/rentcase/internal/adapter/sqlite"
	"github.com/rcdesk/rentcase/internal/app"
	"github.com/rcdesk/rentcase/internal/domain"

	handler "github.com/rcdesk/rentcase/internal/adapter/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "rentcase.db")
	reopenDays := envIntOrDefault("REOPEN_WINDOW_DAYS", 30)
	sweepInterval := time.Duration(envIntOrDefault("EXPIRY_SWEEP_MINUTES", 60)) * time.Minute

	ctx := context.Background()

	// --- Observability ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	historyStore := sqlite.NewHistoryStore(db)

	queue, err := river.Setup(ctx, db, historyStore)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := queue.Start(ctx); err != nil {
		return fmt.Errorf("river start: %w", err)
	}

	recorder := otel.NewTracingRecorder(river.NewRecorder(queue))
	clock := app.SystemClock{}

	cases := otel.NewTracingCaseRepository(sqlite.NewCaseRepository(db))
	agreements := sqlite.NewTenancyRepository(db)
	payments := sqlite.NewRentPaymentRepository(db)
	occupancies := sqlite.NewOccupancyRepository(db)
	properties := sqlite.NewPropertyRepository(db)
	hearings := sqlite.NewHearingRepository(db)
	sessions := sqlite.NewMediationRepository(db)
	staff := sqlite.NewStaffRepository(db)

	// --- Application ---
	caseSvc := app.NewCaseService(app.CaseDeps{
		Cases:     cases,
		Hearings:  hearings,
		Staff:     staff,
		Validator: fsm.Case(),
		History:   recorder,
		Clock:     clock,
		Policy:    domain.Policy{ReopenWindow: time.Duration(reopenDays) * 24 * time.Hour},
	})
	tenancySvc := app.NewTenancyService(app.TenancyDeps{
		Agreements:       agreements,
		Payments:         payments,
		Occupancies:      occupancies,
		Properties:       properties,
		Validator:        fsm.Tenancy(),
		PaymentValidator: fsm.Payment(),
		History:          recorder,
		Clock:            clock,
	})
	hearingSvc := app.NewHearingService(app.HearingDeps{
		Hearings:  hearings,
		Staff:     staff,
		Cases:     caseSvc,
		Validator: fsm.Hearing(),
		History:   recorder,
		Clock:     clock,
	})
	mediationSvc := app.NewMediationService(app.MediationDeps{
		Sessions:  sessions,
		Staff:     staff,
		Cases:     caseSvc,
		Validator: fsm.Mediation(),
		History:   recorder,
		Clock:     clock,
	})

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware("rentcase", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("rentcase", "0.1.0"))
	handler.RegisterCases(api, caseSvc)
	handler.RegisterTenancies(api, tenancySvc)
	handler.RegisterHearings(api, hearingSvc)
	handler.RegisterMediations(api, mediationSvc)
	handler.RegisterStaff(api, caseSvc)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Periodic sweep expiring agreements whose end date has passed.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go runExpirySweep(sweepCtx, tenancySvc, sweepInterval)

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("rentcase listening on :%s", port)
		log.Printf("API docs: http://localhost:%s/docs", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-done:
	}

	log.Println("shutting down...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		log.Printf("river shutdown: %v", err)
	}

	log.Println("stopped")
	return nil
}

// runExpirySweep periodically expires agreements that have passed their end
// date, so lapsed leases do not linger in the active state.
func runExpirySweep(ctx context.Context, svc *app.TenancyService, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.ExpireDue(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "expiry sweep", "error", err, "expired", n)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "expiry sweep", "expired", n)
			}
		}
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "github.com/Lafiorentina/siteweb/internal/adapters/http_server"
	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
	"github.com/Lafiorentina/siteweb/internal/adapters/ratelimit"
	redisad "github.com/Lafiorentina/siteweb/internal/adapters/redis"
	"github.com/Lafiorentina/siteweb/internal/adapters/sanity"
	"github.com/Lafiorentina/siteweb/internal/adapters/web3forms"
	"github.com/Lafiorentina/siteweb/internal/app"
	"github.com/Lafiorentina/siteweb/internal/domain"
	"github.com/Lafiorentina/siteweb/internal/i18n"
	"github.com/Lafiorentina/siteweb/internal/shared"
)

// unconfiguredRelay fails every submission when no access key is set.
type unconfiguredRelay struct{}

func (unconfiguredRelay) Submit(context.Context, map[string]string) (domain.RelayResult, error) {
	return domain.RelayResult{}, errors.New("form relay not configured")
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "site")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := i18n.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("translations invalid")
	}
	lang, err := i18n.Parse(cfg.DefaultLang)
	if err != nil {
		log.Warn().Err(err).Msg("DEFAULT_LANG unsupported, using pt")
		lang = i18n.Default
	}

	// content
	store, err := sanity.New(sanity.Options{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		UseCDN:     cfg.SanityUseCDN,
		Token:      cfg.SanityToken,
		BaseURL:    cfg.SanityBaseURL,
		RPS:        cfg.SanityRPS,
		Timeout:    cfg.FetchTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize content client")
	}
	urls := sanity.URLBuilder{ProjectID: cfg.SanityProjectID, Dataset: cfg.SanityDataset}
	site := app.NewSite(store, urls)
	defer site.Close()

	// forms
	var relay domain.FormRelay = unconfiguredRelay{}
	if cfg.FormsAccessKey != "" {
		c, err := web3forms.New(cfg.FormsEndpoint, cfg.FormsAccessKey, 2)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize form relay")
		}
		relay = c
	}

	var limiter domain.SubmissionLimiter = ratelimit.NewMemory(cfg.SubmitLimit, cfg.SubmitWindow)
	if cfg.RedisAddr != "" {
		rl := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SubmitLimit, cfg.SubmitWindow)
		defer rl.Close()
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rl.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; limiter will fail open")
		}
		cancel()
		limiter = rl
	}

	// mount content in the background; pages render empty sections until it lands
	go func() {
		start := time.Now()
		errs := site.Mount(ctx, cfg.FetchWorkers)
		failed := 0
		for _, err := range errs {
			if err != nil {
				failed++
			}
		}
		log.Info().Int("failed", failed).Dur("took", time.Since(start)).Msg("content mounted")
	}()

	// http
	srv := server.New(15 * time.Second)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	if ms := observability.Serve(cfg.MetricsAddr, reg); ms != nil {
		defer ms.Close()
	}
	srv.MountHandlers(&server.Handlers{Site: site, Catalog: catalog, Relay: relay, Limiter: limiter, Lang: lang})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("lang", lang.String()).Msg("site listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

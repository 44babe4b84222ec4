// Command contentcheck fetches every section once and prints the rendered page.
// It exits non-zero when any section fails, for use in deploy pipelines.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
	"github.com/Lafiorentina/siteweb/internal/adapters/sanity"
	"github.com/Lafiorentina/siteweb/internal/app"
	"github.com/Lafiorentina/siteweb/internal/domain"
	"github.com/Lafiorentina/siteweb/internal/i18n"
	"github.com/Lafiorentina/siteweb/internal/shared"
)

type nopRelay struct{}

func (nopRelay) Submit(context.Context, map[string]string) (domain.RelayResult, error) {
	return domain.RelayResult{}, nil
}

func main() {
	langFlag := flag.String("lang", "", "render language (pt|en); empty renders both")
	quiet := flag.Bool("q", false, "only report failures")
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, "contentcheck")

	langs := i18n.Supported()
	if *langFlag != "" {
		l, err := i18n.Parse(*langFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("bad -lang")
		}
		langs = []i18n.Language{l}
	}

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
	site := app.NewSite(store, sanity.URLBuilder{ProjectID: cfg.SanityProjectID, Dataset: cfg.SanityDataset})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	defer cancel()

	log.Info().Str("project", cfg.SanityProjectID).Str("dataset", cfg.SanityDataset).Int("workers", cfg.FetchWorkers).Msg("content check starting")
	errs := site.Mount(ctx, cfg.FetchWorkers)
	failed := 0
	for _, name := range app.Sections {
		if err := errs[name]; err != nil {
			failed++
			log.Error().Str("section", name).Err(err).Msg("section failed")
			continue
		}
		log.Info().Str("section", name).Msg("section ok")
	}

	if !*quiet {
		out, err := renderPages(ctx, site, langs, cfg.FetchWorkers)
		if err != nil {
			log.Fatal().Err(err).Msg("render failed")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, v := range out {
			if err := enc.Encode(v); err != nil {
				log.Fatal().Err(err).Msg("write page failed")
			}
		}
	}

	if failed > 0 {
		log.Error().Int("failed", failed).Msg("content check failed")
		os.Exit(1)
	}
	log.Info().Msg("content check completed")
}

// renderPages renders one page per language, at most workers at a time; output order follows langs.
func renderPages(ctx context.Context, site *app.Site, langs []i18n.Language, workers int) ([]app.PageView, error) {
	out := make([]app.PageView, len(langs))
	sem := semaphore.NewWeighted(int64(max(workers, 1)))
	var wg sync.WaitGroup
	for i, l := range langs {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, l i18n.Language) {
			defer wg.Done()
			defer sem.Release(1)
			out[i] = app.NewPage(site, i18n.Builtin(), l, nopRelay{}).Render()
		}(i, l)
	}
	wg.Wait()
	return out, nil
}

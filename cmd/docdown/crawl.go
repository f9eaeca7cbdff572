package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docdown/docdown/internal/config"
	"github.com/docdown/docdown/internal/convert"
	"github.com/docdown/docdown/internal/crawler"
	"github.com/docdown/docdown/internal/database"
	"github.com/docdown/docdown/internal/log"
	"github.com/docdown/docdown/internal/model"
	"github.com/docdown/docdown/internal/report"
	"github.com/docdown/docdown/internal/robots"
	"github.com/docdown/docdown/internal/storage"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Download a documentation website as Markdown",
		Long: `Crawl downloads a documentation website and converts each page to
Markdown. The output directory mirrors the site's URL structure:
https://docs.example.com/guide/install becomes guide/install.md.

Discovery methods:
  auto       Probe conventional sitemap locations, fall back to
             recursive link-following (default)
  sitemap    Resolve an explicit sitemap URL into a page list
  recursive  Follow in-scope links starting from the base URL

Without --url the command asks for its settings interactively.

Examples:
  # Crawl a documentation site with sitemap auto-discovery
  docdown crawl --url https://docs.example.com

  # Follow links instead of using the sitemap
  docdown crawl --url https://docs.example.com --method recursive

  # Use an explicit sitemap and limit the download
  docdown crawl --url https://docs.example.com \
    --method sitemap --sitemap https://docs.example.com/sitemap.xml \
    --max-pages 100

  # Faster crawl against a host you control
  docdown crawl --url https://docs.example.com --delay 0 --workers 4

Configuration file (.docdown) example:
  sites:
    docs.example.com:
      contentSelectors:
        - "div.theme-doc-markdown"
      delay: 2s`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Target flags
	cmd.Flags().StringP("url", "u", "",
		"Base URL of the documentation site (prompts interactively when omitted)")
	cmd.Flags().StringP("method", "m", config.MethodAuto,
		"Discovery method: auto, sitemap, or recursive")
	cmd.Flags().StringP("sitemap", "s", "",
		"Explicit sitemap URL (implies --method sitemap)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Directory to write Markdown files to")

	// Crawl behavior flags
	cmd.Flags().VarP(newDelayValue(config.DefaultDelay), "delay", "d",
		"Politeness delay between requests, in seconds (accepts 1.5) or as a duration (1500ms)")
	cmd.Flags().IntP("max-pages", "p", 0,
		"Maximum number of pages to download (0 = unlimited)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-page fetch timeout")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of concurrent fetch workers")
	cmd.Flags().Bool("no-robots", false,
		"Ignore robots.txt disallow rules")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .docdown in current or home directory)")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Skip recording the run in the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// No base URL on the command line means interactive setup.
	if cfg.BaseURL == "" {
		if err := promptConfig(cmd, cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(cmd.ErrOrStderr(), "received shutdown signal, finishing in-flight pages...")
		cancel()
	}()

	return runCrawl(ctx, cmd, cfg)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.BaseURL, err = cmd.Flags().GetString("url")
	if err != nil {
		return nil, err
	}

	cfg.Method, err = cmd.Flags().GetString("method")
	if err != nil {
		return nil, err
	}

	cfg.SitemapURL, err = cmd.Flags().GetString("sitemap")
	if err != nil {
		return nil, err
	}
	// An explicit sitemap URL pins the method.
	if cfg.SitemapURL != "" {
		cfg.Method = config.MethodSitemap
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = parseDelay(cmd.Flags().Lookup("delay").Value.String())
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	noRobots, err := cmd.Flags().GetBool("no-robots")
	if err != nil {
		return nil, err
	}
	cfg.RespectRobots = !noRobots

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	baseURL, err := crawler.Normalize(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	cfg.BaseURL = baseURL

	// Per-host overrides from the config file.
	siteConfig := cfg.SiteConfigs.GetSiteConfig(cfg.Host())
	if siteConfig.Delay.Duration > 0 {
		cfg.Delay = siteConfig.Delay.Duration
	}
	if siteConfig.MaxPages > 0 && (cfg.MaxPages == 0 || siteConfig.MaxPages < cfg.MaxPages) {
		cfg.MaxPages = siteConfig.MaxPages
	}

	writer := storage.NewWriter(cfg.OutputDir)
	if err := writer.EnsureRoot(); err != nil {
		return err
	}

	// The run log lives next to the downloaded files; console verbosity
	// follows --verbose.
	logger, logFile, err := log.NewRunLogger(cmd.ErrOrStderr(), cfg.OutputDir, cfg.Verbose)
	if err != nil {
		logger.Warn("could not create run log file, logging to console only", "error", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting crawl",
		"baseURL", cfg.BaseURL,
		"method", cfg.Method,
		"output", cfg.OutputDir,
		"delay", cfg.Delay,
		"maxPages", cfg.MaxPages,
		"workers", cfg.Workers,
		"respectRobots", cfg.RespectRobots,
	)

	probeClient := &http.Client{Timeout: cfg.ProbeTimeout}

	// robots.txt enforcement is best effort: a missing or unreadable
	// policy never blocks the crawl.
	policy := robots.Permissive(cfg.UserAgent)
	if cfg.RespectRobots {
		loaded, err := robots.Load(ctx, probeClient, cfg.BaseURL, cfg.UserAgent)
		if err != nil {
			logger.Warn("could not load robots.txt, proceeding without restrictions", "error", err)
		} else {
			policy = loaded
		}
	} else {
		logger.Info("robots.txt enforcement disabled")
	}

	filter := crawler.NewFilter(cfg.Host(), policy)

	extractorOpts := []crawler.ExtractorOption{}
	if len(siteConfig.ContentSelectors) > 0 {
		extractorOpts = append(extractorOpts, crawler.WithContentSelectors(siteConfig.ContentSelectors))
	}
	if len(siteConfig.StripSelectors) > 0 {
		extractorOpts = append(extractorOpts, crawler.WithStripSelectors(siteConfig.StripSelectors))
	}
	extractor := crawler.NewExtractor(filter, extractorOpts...)

	seeds, method, err := resolveSeeds(ctx, cfg, filter, probeClient, logger)
	if err != nil {
		return err
	}

	// Sitemap runs apply the page budget at resolution time (first N in
	// document order) and do not follow links; the frontier budget is
	// only needed for recursive discovery.
	followLinks := method == model.MethodRecursive
	frontierBudget := 0
	if followLinks {
		frontierBudget = cfg.MaxPages
	}

	processor := crawler.NewProcessor(
		&http.Client{},
		extractor,
		convert.NewMarkdown(),
		cfg.UserAgent,
		cfg.Timeout,
		cfg.MaxBodySize,
		logger,
	)

	summary := model.NewSummary(cfg.BaseURL, method, cfg.OutputDir)

	crawlerOpts := []crawler.CrawlerOption{
		crawler.WithWorkers(cfg.Workers),
		crawler.WithFollowLinks(followLinks),
	}

	// History database, best effort: a broken database warns instead of
	// blocking the download.
	var db *database.CrawlDB
	var runID int64
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("could not open history database, run will not be recorded", "error", err)
		} else {
			defer db.Close()
			runID, err = db.StartRun(ctx, cfg.BaseURL, method, cfg.OutputDir)
			if err != nil {
				logger.Warn("could not record run", "error", err)
			} else {
				crawlerOpts = append(crawlerOpts, crawler.WithRecorder(db.NewRunRecorder(runID)))
			}
		}
	}

	c := crawler.New(
		crawler.NewFrontier(frontierBudget),
		processor,
		writer,
		cfg.Delay,
		logger,
		crawlerOpts...,
	)

	if err := c.Run(ctx, seeds, summary); err != nil {
		return err
	}

	if db != nil && runID != 0 {
		// Finishing the run must survive Ctrl-C, so it does not use the
		// cancelled crawl context.
		if err := db.FinishRun(context.WithoutCancel(ctx), runID, summary); err != nil {
			logger.Warn("could not finish run record", "error", err)
		}
	}

	return writeReports(cmd, cfg, summary)
}

// resolveSeeds determines the seed URLs and the effective discovery
// method. Auto mode probes conventional sitemap locations and falls back
// to recursive link-following; an explicitly requested sitemap that turns
// out empty falls back the same way.
func resolveSeeds(ctx context.Context, cfg *config.Config, filter *crawler.Filter, client *http.Client, logger *slog.Logger) ([]string, string, error) {
	sitemapURL := cfg.SitemapURL

	switch cfg.Method {
	case config.MethodRecursive:
		return []string{cfg.BaseURL}, model.MethodRecursive, nil

	case config.MethodAuto:
		found, ok := crawler.ProbeSitemap(ctx, client, cfg.BaseURL, cfg.UserAgent, logger)
		if !ok {
			logger.Info("no sitemap found, following links instead")
			return []string{cfg.BaseURL}, model.MethodRecursive, nil
		}
		sitemapURL = found
	}

	resolver := crawler.NewResolver(client, filter, cfg.UserAgent, logger)
	seeds, err := resolver.Resolve(ctx, sitemapURL, cfg.MaxPages)
	if err != nil {
		if errors.Is(err, crawler.ErrEmptySitemap) {
			logger.Warn("sitemap contains no usable URLs, following links instead", "sitemap", sitemapURL)
			return []string{cfg.BaseURL}, model.MethodRecursive, nil
		}
		if cfg.Method == config.MethodAuto {
			logger.Warn("sitemap resolution failed, following links instead", "sitemap", sitemapURL, "error", err)
			return []string{cfg.BaseURL}, model.MethodRecursive, nil
		}
		return nil, "", err
	}

	logger.Info("sitemap resolved", "sitemap", sitemapURL, "pages", len(seeds))
	return seeds, model.MethodSitemap, nil
}

// writeReports renders the summary to the terminal and writes SUMMARY.md
// into the output directory.
func writeReports(cmd *cobra.Command, cfg *config.Config, summary *model.Summary) error {
	console := report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(cfg.Verbose))
	if _, err := console.Write(summary); err != nil {
		return err
	}

	path := filepath.Join(cfg.OutputDir, report.SummaryFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	if _, err := report.NewMarkdownWriter(f).Write(summary); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}

	return nil
}

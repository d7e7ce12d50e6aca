package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/megacrawl/internal/attachment"
	"github.com/nao1215/megacrawl/internal/config"
	"github.com/nao1215/megacrawl/internal/crawler"
	"github.com/nao1215/megacrawl/internal/fetch"
	"github.com/nao1215/megacrawl/internal/log"
	"github.com/nao1215/megacrawl/internal/model"
	"github.com/nao1215/megacrawl/internal/report"
	"github.com/nao1215/megacrawl/internal/session"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <source>",
		Short: "Crawl a portal section and collect article bodies",
		Long: `Crawl walks one portal section page by page, fetches the detail page of
every list row, and prints each record as it is collected.

The source is one of the aliases shown by "megacrawl sources" (report,
news, archive) or the section's Korean name.

Examples:
  # Crawl the first three pages of the admissions news section
  megacrawl crawl news --end-page 3 --cookies '{"megauid":"..."}'

  # Crawl institutional announcements and prefetch attachments up to 100 MB
  megacrawl crawl archive --prefetch --prefetch-size 100

  # Download zip and pdf attachments of selected items after the crawl
  megacrawl crawl archive --download --select 4711,4712 --ext-filter zip,pdf

  # Write a markdown summary to a file
  megacrawl crawl report --markdown -o report.md

Profile file (.megacrawl) example:
  defaults:
    delay: 400ms
  sources:
    archive:
      cookies:
        megauid: "abc123"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Page range flags
	cmd.Flags().IntP("start-page", "s", 1, "First list page to crawl (inclusive)")
	cmd.Flags().IntP("end-page", "e", 1, "Last list page to crawl (inclusive)")

	// Request shaping flags
	cmd.Flags().String("cookies", "", "Cookies as a JSON object, as copied from browser developer tools")
	cmd.Flags().String("headers", "", "Extra HTTP headers as a JSON object, merged over the defaults")
	cmd.Flags().Bool("tls-verify", false, "Enable strict TLS certificate verification")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay, "Pause between consecutive requests (max 2s)")

	// Attachment flags (institutional announcement section only)
	cmd.Flags().Bool("prefetch", false, "Download attachments during the crawl")
	cmd.Flags().Int("prefetch-size", config.DefaultPrefetchSizeMB, "Per-file size cap for prefetch in MB (10-500)")
	cmd.Flags().Bool("download", false, "Bulk download attachments after the crawl")
	cmd.Flags().StringSlice("select", nil, "Item identifiers to restrict the bulk download to (default: all)")
	cmd.Flags().String("ext-filter", config.DefaultExtensionFilter, "Comma-separated extension allow-list for bulk download")
	cmd.Flags().String("save-dir", "", "Directory for downloaded attachments (default: XDG data dir)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Profile file path (default: .megacrawl in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write summary to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Set up structured logging first; config parsing reports through it
	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Build config from flags and the profile file
	cfg, err := buildConfig(cmd, args, logger)
	if err != nil {
		return err
	}

	// Validate configuration
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
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the profile
// file. Flag values win over profile values.
func buildConfig(cmd *cobra.Command, args []string, logger *slog.Logger) (*config.Config, error) {
	cfg := config.NewConfig(args[0])

	var err error

	cfg.StartPage, err = cmd.Flags().GetInt("start-page")
	if err != nil {
		return nil, err
	}

	cfg.EndPage, err = cmd.Flags().GetInt("end-page")
	if err != nil {
		return nil, err
	}

	rawCookies, err := cmd.Flags().GetString("cookies")
	if err != nil {
		return nil, err
	}
	cfg.Cookies = config.ParseJSONMap(rawCookies, logger)

	rawHeaders, err := cmd.Flags().GetString("headers")
	if err != nil {
		return nil, err
	}
	for k, v := range config.ParseJSONMap(rawHeaders, logger) {
		cfg.Headers[k] = v
	}

	tlsVerify, err := cmd.Flags().GetBool("tls-verify")
	if err != nil {
		return nil, err
	}
	cfg.InsecureTLS = !tlsVerify

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Prefetch, err = cmd.Flags().GetBool("prefetch")
	if err != nil {
		return nil, err
	}

	cfg.PrefetchSizeMB, err = cmd.Flags().GetInt("prefetch-size")
	if err != nil {
		return nil, err
	}

	cfg.Download, err = cmd.Flags().GetBool("download")
	if err != nil {
		return nil, err
	}

	cfg.Select, err = cmd.Flags().GetStringSlice("select")
	if err != nil {
		return nil, err
	}

	rawExts, err := cmd.Flags().GetString("ext-filter")
	if err != nil {
		return nil, err
	}
	cfg.ExtensionFilter = config.SplitExtensions(rawExts)

	cfg.SaveDir, err = cmd.Flags().GetString("save-dir")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Merge the profile file under the flag values.
	// If the user explicitly specified a profile path, error if not found.
	// If no path specified, silently skip when no file exists.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if found := config.FindConfigFile(configPath); found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile file %s: %w", found, err)
		}
		flagDelay := cfg.Delay
		cfg.Apply(cf.ProfileFor(cfg.SourceName))
		// An explicit --delay beats the profile's delay.
		if cmd.Flags().Changed("delay") {
			cfg.Delay = flagDelay
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("profile file not found: %s", configPath)
	}

	return cfg, nil
}

// runCrawl executes the crawl and renders its results.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	def := cfg.Source()

	logger.Info("starting crawl",
		"source", def.Kind.String(),
		"startPage", cfg.StartPage,
		"endPage", cfg.EndPage,
		"prefetch", cfg.Prefetch,
		"download", cfg.Download,
	)

	client := fetch.New(cfg.Headers,
		fetch.WithInsecureTLS(cfg.InsecureTLS),
		fetch.WithLogger(logger),
	)
	sess := session.New()

	opts := []crawler.Option{
		crawler.WithEmitter(report.NewTermEmitter(os.Stdout)),
		crawler.WithLogger(logger),
	}

	var manager *attachment.Manager
	if def.Kind.SupportsAttachments() {
		manager = attachment.NewManager(client, def, cfg.Cookies, sess,
			attachment.WithLogger(logger))
		opts = append(opts, crawler.WithAttachmentManager(manager))
	}

	c := crawler.New(client, def, opts...)

	startTime := time.Now()
	crawlErr := c.Crawl(ctx, cfg, sess)
	if crawlErr != nil {
		// A cancelled or failed run still summarizes what it collected.
		fmt.Fprintf(os.Stderr, "Crawl stopped: %v\n", crawlErr)
	}
	fmt.Printf("\nCrawl finished in %s (%d rows)\n", time.Since(startTime).Round(time.Millisecond), sess.Len())

	if err := outputSummary(cfg, sess); err != nil {
		logger.Error("summary output failed", "error", err)
	}

	if err := saveAttachments(ctx, cfg, sess, manager, logger); err != nil {
		logger.Error("attachment save failed", "error", err)
	}

	return crawlErr
}

// outputSummary renders the crawl summary in the requested format.
func outputSummary(cfg *config.Config, sess *session.Session) error {
	summary := &report.Summary{
		Source:        cfg.Source().Kind.String(),
		StartPage:     cfg.StartPage,
		EndPage:       cfg.EndPage,
		Rows:          sess.Results(),
		PreparedFiles: sess.PreparedCount(),
	}

	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(summary)
	return err
}

// saveAttachments writes prefetched files to disk and, with --download,
// runs the bulk selection download.
func saveAttachments(ctx context.Context, cfg *config.Config, sess *session.Session, manager *attachment.Manager, logger *slog.Logger) error {
	if manager == nil || (!cfg.Download && sess.PreparedCount() == 0) {
		return nil
	}

	saveDir := cfg.SaveDir
	if saveDir == "" {
		saveDir = config.DefaultSaveDir()
	}
	if err := os.MkdirAll(saveDir, 0750); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	// Prefetched and on-demand prepared files first.
	var saveErr error
	sess.EachPrepared(func(key model.AttachmentKey, f model.PreparedFile) {
		if err := writeAttachment(saveDir, key.Idx, f.Name, f.Content); err != nil {
			logger.Error("failed to save prepared file", "idx", key.Idx, "file", f.Name, "error", err)
			saveErr = errors.Join(saveErr, err)
			return
		}
		fmt.Printf("saved %s\n", filepath.Join(saveDir, attachmentFileName(key.Idx, f.Name)))
	})

	if cfg.Download {
		rows := selectRows(sess, cfg.Select)
		manager.BulkDownload(ctx, rows, cfg.ExtensionFilter, func(r attachment.BulkResult) {
			if r.Err != nil {
				logger.Error("bulk download failed", "idx", r.Idx, "url", r.URL, "error", r.Err)
				fmt.Fprintf(os.Stderr, "download failed for %s: %v\n", r.URL, r.Err)
				return
			}
			if err := writeAttachment(saveDir, r.Idx, r.File.Name, r.File.Content); err != nil {
				logger.Error("failed to save download", "idx", r.Idx, "file", r.File.Name, "error", err)
				saveErr = errors.Join(saveErr, err)
				return
			}
			fmt.Printf("saved %s\n", filepath.Join(saveDir, attachmentFileName(r.Idx, r.File.Name)))
		})
	}

	return saveErr
}

// selectRows narrows the session's attachment-bearing rows to the
// configured selection. An empty selection means every row.
func selectRows(sess *session.Session, selected []string) []model.DetailResult {
	rows := sess.WithAttachments()
	if len(selected) == 0 {
		return rows
	}

	want := make(map[string]bool, len(selected))
	for _, idx := range selected {
		want[idx] = true
	}

	filtered := make([]model.DetailResult, 0, len(rows))
	for _, r := range rows {
		if want[r.Idx] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// attachmentFileName prefixes the sanitized name with the owning item's
// identifier so files from different items never collide.
func attachmentFileName(idx, name string) string {
	return idx + "_" + name
}

// writeAttachment writes one attachment file with owner-only permissions.
func writeAttachment(dir, idx, name string, content []byte) error {
	path := filepath.Join(dir, attachmentFileName(idx, name))
	return os.WriteFile(path, content, 0600)
}

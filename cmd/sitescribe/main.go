package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"
	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/crawl"
	"github.com/fwojciec/sitescribe/fs"
	"github.com/fwojciec/sitescribe/gemini"
	"github.com/fwojciec/sitescribe/goquery"
	"github.com/fwojciec/sitescribe/htmltomarkdown"
	sshttp "github.com/fwojciec/sitescribe/http"
	"github.com/fwojciec/sitescribe/robotstxt"
	ssslog "github.com/fwojciec/sitescribe/slog"
	"github.com/fwojciec/sitescribe/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Services for end-to-end testing.
	Generator sitescribe.Generator
	Tokens    sitescribe.TokenCounter
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitescribe"),
		kong.Description("Crawl a website and generate content from its structure."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitescribe --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = kongCtx.Command()

	var logger *slog.Logger
	if cli.Verbose {
		logger = newLogger(stderr)
	}

	ua := userAgent(cli.UserAgent)
	policy := robotstxt.NewPolicy(robotstxt.WithUserAgent(ua))
	fetcher := sshttp.NewFetcher(sshttp.WithUserAgent(ua), sshttp.WithRobotsPolicy(policy))
	defer fetcher.Close()

	resolver := sshttp.NewSitemapResolver(nil)
	resolver.UserAgent = ua
	resolver.Robots = policy
	resolver.OnSkip = func(sitemapURL string, err error) {
		if logger != nil {
			logger.Warn("sitemap skipped", "url", sitemapURL, "err", err)
		}
	}

	deps.Fetcher = fetcher
	deps.Policy = policy
	deps.Sitemaps = resolver
	if logger != nil {
		deps.Fetcher = ssslog.NewLoggingFetcher(deps.Fetcher, logger)
		deps.Policy = ssslog.NewLoggingPolicy(deps.Policy, logger)
		deps.Sitemaps = ssslog.NewLoggingSitemapResolver(deps.Sitemaps, logger)
	}

	switch cmd {
	case "crawl <url>":
		deps.Crawler = m.newCrawler(deps, cli.Delay)
		if cli.Crawl.Markdown {
			deps.Crawler.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(origin(cli.Crawl.URL)))
			if cli.Crawl.MainOnly {
				deps.Crawler.Cleaner = trafilatura.NewCleaner()
			}
		}
		if cli.Crawl.Out != "" {
			deps.Pages = fs.NewFileStore(cli.Crawl.Out, fs.Slug(hostname(cli.Crawl.URL)))
		}
	case "generate <keyword>", "rewrite <url>":
		if err := m.wireGenerator(ctx, deps, cli.Model, stderr); err != nil {
			return err
		}
		if logger != nil {
			deps.Generator = ssslog.NewLoggingGenerator(deps.Generator, logger)
		}
		out := cli.Generate.Out
		if cmd == "rewrite <url>" {
			deps.Crawler = m.newCrawler(deps, cli.Delay)
			out = cli.Rewrite.Out
		}
		if out != "" {
			deps.Exporter = fs.NewWriter(out)
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) getenv(key string) string {
	if m.Getenv == nil {
		return os.Getenv(key)
	}
	return m.Getenv(key)
}

// newCrawler builds a crawler from the dependencies wired so far.
func (m *Main) newCrawler(deps *Dependencies, delay time.Duration) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Policy:      deps.Policy,
		Extractor:   goquery.NewExtractor(),
		Links:       goquery.NewLinkExtractor(),
		Sitemaps:    deps.Sitemaps,
		RateLimiter: crawl.NewDomainLimiter(delay),
	}
}

// wireGenerator connects the generation client and token counter unless
// they were injected.
func (m *Main) wireGenerator(ctx context.Context, deps *Dependencies, model string, stderr io.Writer) error {
	deps.Generator = m.Generator
	if deps.Generator == nil {
		apiKey := m.getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return sitescribe.Errorf(sitescribe.EINVALID, "GEMINI_API_KEY not set")
		}
		client, err := gemini.NewClient(ctx, apiKey)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		deps.Generator = gemini.NewGenerator(client, model)
	}

	deps.Tokens = m.Tokens
	if deps.Tokens == nil {
		tc, err := gemini.NewTokenCounter(model)
		if err != nil {
			// Models without a local tokenizer fall back to an estimate.
			tc = gemini.NewEstimatingTokenCounter()
		}
		deps.Tokens = tc
	}
	return nil
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.DebugLevel,
		ReportTimestamp: true,
		Prefix:          "sitescribe",
	})
	return slog.New(handler)
}

// origin returns the scheme and host of rawURL, or "" if it cannot be parsed.
func origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// hostname returns the host of rawURL, or "site" if it cannot be parsed.
func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "site"
	}
	return u.Hostname()
}

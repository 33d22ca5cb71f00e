package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/crawl"
	sshttp "github.com/fwojciec/sitescribe/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Fetcher   sitescribe.Fetcher
	Policy    sitescribe.RobotsPolicy
	Sitemaps  sitescribe.SitemapResolver
	Crawler   *crawl.Crawler
	Generator sitescribe.Generator
	Tokens    sitescribe.TokenCounter
	Exporter  sitescribe.Exporter
	Pages     sitescribe.PageStore

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" help:"Log every request to stderr"`
	UserAgent string        `name:"user-agent" env:"SITESCRIBE_USER_AGENT" help:"User-Agent sent with every request"`
	Model     string        `env:"SITESCRIBE_MODEL" default:"gemini-2.5-flash" help:"Gemini model used for generation"`
	Delay     time.Duration `default:"1s" help:"Minimum delay between requests to the same domain"`

	Crawl    CrawlCmd    `cmd:"" help:"Crawl a website and print its structure"`
	Sitemap  SitemapCmd  `cmd:"" help:"List the URLs in a sitemap"`
	Robots   RobotsCmd   `cmd:"" help:"Check whether robots.txt allows fetching a URL"`
	Generate GenerateCmd `cmd:"" help:"Generate copy for a keyword"`
	Rewrite  RewriteCmd  `cmd:"" help:"Crawl a website and rewrite its content"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL      string `arg:"" help:"Start URL"`
	MaxPages int    `short:"n" name:"max-pages" default:"20" help:"Maximum number of pages to record"`
	Sitemap  bool   `help:"Seed the crawl with the site's sitemap URLs"`
	Markdown bool   `short:"m" help:"Convert page bodies to markdown instead of headings and paragraphs"`
	MainOnly bool   `name:"main-content" help:"With --markdown, keep only each page's main content"`
	Out      string `short:"o" type:"path" help:"Write one file per page under this directory"`
}

// SitemapCmd is the "sitemap" subcommand.
type SitemapCmd struct {
	URL      string   `arg:"" help:"Sitemap URL, or site URL with --discover"`
	Discover bool     `short:"d" help:"Discover sitemaps from robots.txt and /sitemap.xml"`
	Filter   []string `short:"F" name:"filter" help:"Include URLs matching regex (repeatable)"`
	Exclude  []string `short:"x" name:"exclude" help:"Exclude URLs matching regex (repeatable)"`
}

// RobotsCmd is the "robots" subcommand.
type RobotsCmd struct {
	URL string `arg:"" help:"URL to check"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Keyword   string   `arg:"" help:"Keyword or topic"`
	Type      string   `short:"t" enum:"Blog Post,Service Page,Landing Page,FAQ" default:"Blog Post" help:"Content type (${enum})"`
	Length    string   `short:"l" enum:"Short,Standard,Long" default:"Standard" help:"Content length (${enum})"`
	Audience  string   `help:"Target audience"`
	Tone      string   `help:"Tone of voice"`
	CTA       []string `name:"cta" help:"Call to action (repeatable)"`
	MaxTokens int      `name:"max-tokens" default:"1500" help:"Cap on generated output tokens (0 for the model default)"`
	Out       string   `short:"o" type:"path" help:"Write the result to a markdown file in this directory"`
}

// RewriteCmd is the "rewrite" subcommand.
type RewriteCmd struct {
	URL          string  `arg:"" help:"Start URL"`
	MaxPages     int     `short:"n" name:"max-pages" default:"10" help:"Maximum number of pages to crawl"`
	Instructions string  `short:"i" help:"Instructions appended to the crawled pages"`
	Tolerance    float64 `default:"0" help:"Reject rewrites whose word count differs from the crawled text by more than this fraction (0 disables)"`
	Out          string  `short:"o" type:"path" help:"Write the result to a markdown file in this directory"`
}

// userAgent returns ua or the default User-Agent when ua is empty.
func userAgent(ua string) string {
	if ua == "" {
		return sshttp.DefaultUserAgent
	}
	return ua
}

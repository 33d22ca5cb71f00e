package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/crawl"
	"github.com/fwojciec/sitescribe/markdown"
	"github.com/schollz/progressbar/v3"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	target := sitescribe.CrawlTarget{
		StartURL:   c.URL,
		MaxPages:   c.MaxPages,
		UseSitemap: c.Sitemap,
	}

	result, err := runCrawl(deps, target)
	if result == nil || result.State == crawl.StateFailed {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}
	crawlErr := err

	if deps.Pages != nil {
		if err := savePages(deps, result.Pages); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %d pages\n", len(result.Pages))
	} else if err := markdown.RenderPages(deps.Stdout, result.Pages); err != nil {
		return err
	}

	printSummary(deps.Stderr, result)
	return crawlErr
}

// savePages writes every page to the page store, discarding partial output
// if any save fails.
func savePages(deps *Dependencies, pages []*sitescribe.PageRecord) error {
	for _, page := range pages {
		if err := deps.Pages.Save(deps.Ctx, page); err != nil {
			return errors.Join(err, deps.Pages.Abort())
		}
	}
	return deps.Pages.Commit()
}

// runCrawl runs the crawler with a progress bar on stderr.
func runCrawl(deps *Dependencies, target sitescribe.CrawlTarget) (*crawl.Result, error) {
	bar := newProgressBar(deps.Stderr, max(target.MaxPages, 1))
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressRecorded:
			bar.Describe(crawl.TruncateURL(event.URL, 50))
			_ = bar.Set(event.Recorded)
		case crawl.ProgressFinished:
			_ = bar.Finish()
		}
	}
	return deps.Crawler.Crawl(deps.Ctx, target, progress)
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("crawling"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func printSummary(w io.Writer, result *crawl.Result) {
	fmt.Fprintf(w, "Crawl %s: %d pages recorded, %d skipped by robots.txt, %d failed (%s fetched)\n",
		result.State, len(result.Pages), len(result.Skipped), len(result.Failed), crawl.FormatBytes(result.Bytes))
	for _, u := range result.Failed {
		fmt.Fprintf(w, "  failed: %s\n", u)
	}
}

package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/sitescribe"
)

// Run executes the sitemap command.
func (c *SitemapCmd) Run(deps *Dependencies) error {
	filter, err := compileFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}

	var urls []string
	if c.Discover {
		urls, err = deps.Sitemaps.DiscoverURLs(deps.Ctx, c.URL, filter)
	} else {
		urls, err = deps.Sitemaps.ResolveSitemap(deps.Ctx, c.URL)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}

	n := 0
	for _, u := range urls {
		if !filter.Match(u) {
			continue
		}
		fmt.Fprintln(deps.Stdout, u)
		n++
	}
	fmt.Fprintf(deps.Stderr, "%d URLs\n", n)
	return nil
}

// compileFilter compiles include and exclude patterns into a URLFilter.
// Returns nil when no patterns are given.
func compileFilter(include, exclude []string) (*sitescribe.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	filter := &sitescribe.URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, sitescribe.Errorf(sitescribe.EINVALID, "invalid filter pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, sitescribe.Errorf(sitescribe.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/crawl"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	brief := sitescribe.ContentBrief{
		ContentType:   sitescribe.ContentType(c.Type),
		Keyword:       c.Keyword,
		Length:        sitescribe.ContentLength(c.Length),
		Audience:      c.Audience,
		Tone:          c.Tone,
		CallsToAction: c.CTA,
	}
	if err := brief.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}

	req := sitescribe.GenerateRequest{
		System:    sitescribe.BriefSystemInstruction,
		Prompt:    sitescribe.ComposeBriefPrompt(brief),
		MaxTokens: c.MaxTokens,
	}
	reportPromptSize(deps, req.Prompt)

	text, err := deps.Generator.Generate(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}

	meta := sitescribe.ExportMeta{Keyword: brief.Keyword}
	return emit(deps, brief.Keyword, meta, text)
}

// reportPromptSize prints the prompt's token count to stderr.
// Counting failures are not fatal.
func reportPromptSize(deps *Dependencies, prompt string) {
	if deps.Tokens == nil {
		return
	}
	n, err := deps.Tokens.CountTokens(deps.Ctx, prompt)
	if err != nil {
		return
	}
	fmt.Fprintf(deps.Stderr, "Prompt: %s\n", crawl.FormatTokens(n))
}

// emit writes body to the exporter when one is configured, otherwise to stdout.
func emit(deps *Dependencies, name string, meta sitescribe.ExportMeta, body string) error {
	if deps.Exporter == nil {
		fmt.Fprintln(deps.Stdout, strings.TrimSpace(body))
		return nil
	}
	meta.Generated = deps.now().UTC()
	path, err := deps.Exporter.WriteExport(name, meta, body)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", path)
	return nil
}

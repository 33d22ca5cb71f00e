package main

import (
	"bytes"
	"fmt"

	"github.com/fwojciec/sitescribe"
	"github.com/fwojciec/sitescribe/markdown"
)

// Run executes the rewrite command.
func (c *RewriteCmd) Run(deps *Dependencies) error {
	target := sitescribe.CrawlTarget{StartURL: c.URL, MaxPages: c.MaxPages}

	result, err := runCrawl(deps, target)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}
	printSummary(deps.Stderr, result)
	if len(result.Pages) == 0 {
		err := sitescribe.Errorf(sitescribe.ENOTFOUND, "no pages recorded from %s", c.URL)
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}

	instructions := c.Instructions
	if instructions == "" {
		instructions = sitescribe.DefaultRewriteInstructions
	}
	req := sitescribe.GenerateRequest{
		System: sitescribe.RewriteSystemInstruction,
		Prompt: sitescribe.ComposePagesPrompt(result.Pages, instructions),
		JSON:   true,
	}
	reportPromptSize(deps, req.Prompt)

	text, err := deps.Generator.Generate(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescribe.ErrorMessage(err))
		return err
	}

	name := hostname(c.URL)
	var body bytes.Buffer
	doc, err := sitescribe.ParseDocument(text)
	if err != nil {
		// An unstructured answer is still usable as-is.
		fmt.Fprintf(deps.Stderr, "warning: %s; keeping raw answer\n", sitescribe.ErrorMessage(err))
		body.WriteString(text)
	} else {
		if doc.Title != "" {
			name = doc.Title
		}
		if err := markdown.RenderDocument(&body, doc); err != nil {
			return err
		}
	}

	out := body.String()
	if c.Tolerance > 0 {
		var original bytes.Buffer
		if err := markdown.RenderPages(&original, result.Pages); err != nil {
			return err
		}
		var accepted bool
		out, accepted = sitescribe.AcceptRewrite(original.String(), out, c.Tolerance)
		if !accepted {
			fmt.Fprintln(deps.Stderr, "warning: rewrite length outside tolerance; keeping crawled content")
		}
	}

	meta := sitescribe.ExportMeta{Source: c.URL, Pages: len(result.Pages)}
	return emit(deps, name, meta, out)
}

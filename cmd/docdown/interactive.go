package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docdown/docdown/internal/config"
)

// promptConfig fills in the crawl settings interactively. It is used when
// the crawl command runs without --url. Empty answers keep the defaults
// already present in cfg.
func promptConfig(cmd *cobra.Command, cfg *config.Config) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "docdown interactive setup (empty answer keeps the default)")
	fmt.Fprintln(out)

	baseURL, err := prompt(in, out, "Documentation base URL", "")
	if err != nil {
		return err
	}
	if baseURL == "" {
		return fmt.Errorf("a base URL is required")
	}
	cfg.BaseURL = baseURL

	method, err := prompt(in, out, "Discovery method (auto/sitemap/recursive)", cfg.Method)
	if err != nil {
		return err
	}
	cfg.Method = strings.ToLower(method)

	if cfg.Method == config.MethodSitemap && cfg.SitemapURL == "" {
		sitemapURL, err := prompt(in, out, "Sitemap URL", "")
		if err != nil {
			return err
		}
		cfg.SitemapURL = sitemapURL
	}

	outputDir, err := prompt(in, out, "Output directory", cfg.OutputDir)
	if err != nil {
		return err
	}
	cfg.OutputDir = outputDir

	maxPages, err := prompt(in, out, "Maximum pages (0 = unlimited)", strconv.Itoa(cfg.MaxPages))
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(maxPages)
	if err != nil {
		return fmt.Errorf("invalid page limit %q: %w", maxPages, err)
	}
	cfg.MaxPages = n

	delay, err := prompt(in, out, "Delay between requests (seconds)", cfg.Delay.String())
	if err != nil {
		return err
	}
	d, err := parseDelay(delay)
	if err != nil {
		return err
	}
	cfg.Delay = d

	respect, err := prompt(in, out, "Respect robots.txt (y/n)", "y")
	if err != nil {
		return err
	}
	cfg.RespectRobots = strings.EqualFold(respect, "y") || strings.EqualFold(respect, "yes")

	fmt.Fprintln(out)
	return nil
}

// prompt asks one question and returns the answer, or the fallback when
// the answer is empty.
func prompt(in *bufio.Scanner, out io.Writer, question, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, fallback)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("input closed")
	}

	answer := strings.TrimSpace(in.Text())
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

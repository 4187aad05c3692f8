package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"yamlcheck/internal/config"
	"yamlcheck/internal/lint"
	"yamlcheck/internal/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules and their configured levels",
		Args:  cobra.NoArgs,
		RunE:  runRules,
	}
	cmd.Flags().StringP("config", "c", "", "configuration file (default: search upwards)")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

type ruleEntry struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Level        string `json:"level"`
	DefaultLevel string `json:"defaultLevel"`
	Fixable      bool   `json:"fixable"`
}

func runRules(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return failure("failed to get config flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return failure("failed to get format flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return failure("failed to get working directory: %w", err)
	}
	cfg, err := config.Resolve(configPath, wd)
	if err != nil {
		return failure("%w", err)
	}

	reg := rules.NewRegistry()
	entries := collectRules(reg, cfg.RuleSet(reg))

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return failure("%w", err)
		}
		return nil
	case "pretty":
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return failure("%w", err)
		}
		return renderRules(cmd.OutOrStdout(), entries, colored)
	default:
		return failure("unsupported format %q (must be pretty or json)", format)
	}
}

// collectRules orders entries by category, then id.
func collectRules(reg *lint.Registry, set lint.RuleSet) []ruleEntry {
	var entries []ruleEntry
	for _, rule := range reg.All() {
		m := rule.Meta()
		entries = append(entries, ruleEntry{
			ID:           m.ID,
			Category:     string(m.Category),
			Description:  m.Description,
			Level:        set[m.ID].Level.String(),
			DefaultLevel: m.DefaultLevel.String(),
			Fixable:      m.Fixable,
		})
	}
	order := []string{string(lint.CategoryLayout), string(lint.CategoryStyle), string(lint.CategoryPractices)}
	slices.SortStableFunc(entries, func(a, b ruleEntry) int {
		return slices.Index(order, a.Category) - slices.Index(order, b.Category)
	})
	return entries
}

func renderRules(out io.Writer, entries []ruleEntry, colored bool) error {
	heading := color.New(color.Bold)
	levels := map[string]*color.Color{
		"error": color.New(color.FgRed),
		"warn":  color.New(color.FgYellow),
		"off":   color.New(color.Faint),
	}
	dim := color.New(color.Faint)
	for _, c := range append([]*color.Color{heading, dim}, slices.Collect(maps.Values(levels))...) {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.ID))
	}
	category := ""
	for _, e := range entries {
		if e.Category != category {
			if category != "" {
				fmt.Fprintln(out)
			}
			category = e.Category
			fmt.Fprintln(out, heading.Sprint(category))
		}
		fix := ""
		if e.Fixable {
			fix = dim.Sprint(" (fixable)")
		}
		level := levels[e.Level].Sprintf("%-5s", e.Level)
		if _, err := fmt.Fprintf(out, "  %-*s  %s  %s%s\n", width, e.ID, level, e.Description, fix); err != nil {
			return err
		}
	}
	return nil
}

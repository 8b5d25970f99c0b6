// Package main is the timeline inspection tool for chronicle exports.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/chronicle/internal/config"
	"github.com/dshills/chronicle/internal/engine/action"
	"github.com/dshills/chronicle/internal/engine/query"
	"github.com/dshills/chronicle/internal/engine/timeline"
	"github.com/dshills/chronicle/internal/persist"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	file        string
	configPath  string
	stats       bool
	verify      bool
	categories  string
	kinds       string
	text        string
	checkpoints bool
	sortBy      string
	descending  bool
}

func run() int {
	opts := parseFlags()

	if opts.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		flag.Usage()
		return 1
	}

	settings, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading settings: %v\n", err)
		return 1
	}

	store := persist.NewFileStore(opts.file)
	data, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	tl, fileSettings, err := persist.Import(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: rejected import: %v\n", err)
		return 1
	}
	// Command-line settings win over the settings stored in the export.
	if opts.configPath == "" {
		settings = fileSettings
	}

	if opts.verify {
		return verify(tl, settings)
	}
	if opts.stats {
		printStats(tl)
		return 0
	}

	printEntries(tl, opts)
	return 0
}

func verify(tl *timeline.Store, settings config.Settings) int {
	data, err := persist.Export(tl, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: re-export failed: %v\n", err)
		return 1
	}
	rt, _, err := persist.Import(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: round-trip import failed: %v\n", err)
		return 1
	}
	if rt.Len() != tl.Len() || rt.Cursor() != tl.Cursor() {
		fmt.Fprintf(os.Stderr, "Error: round-trip mismatch: %d/%d entries, cursor %d/%d\n",
			rt.Len(), tl.Len(), rt.Cursor(), tl.Cursor())
		return 1
	}
	fmt.Printf("OK: %d entries, cursor %d\n", tl.Len(), tl.Cursor())
	return 0
}

func printStats(tl *timeline.Store) {
	entries := tl.Entries()

	checkpoints := 0
	byCategory := make(map[action.Category]int)
	for _, entry := range entries {
		if entry.Flags.Checkpoint {
			checkpoints++
		}
		for _, a := range entry.Actions {
			byCategory[a.Category]++
		}
	}

	fmt.Printf("Entries:     %d\n", len(entries))
	fmt.Printf("Cursor:      %d\n", tl.Cursor())
	fmt.Printf("Checkpoints: %d\n", checkpoints)
	for _, cat := range []action.Category{
		action.CategoryObject, action.CategoryLayout,
		action.CategoryStyle, action.CategorySystem,
	} {
		if byCategory[cat] > 0 {
			fmt.Printf("  %-8s %d\n", cat, byCategory[cat])
		}
	}
}

func printEntries(tl *timeline.Store, opts options) {
	filter := query.Filter{
		Text:            opts.text,
		CheckpointsOnly: opts.checkpoints,
	}
	for _, c := range splitList(opts.categories) {
		filter.Categories = append(filter.Categories, action.Category(c))
	}
	for _, k := range splitList(opts.kinds) {
		filter.Kinds = append(filter.Kinds, action.Kind(k))
	}

	entries := filter.Apply(tl.Entries())

	if opts.sortBy != "" {
		entries = query.Sort(entries, query.SortKey{
			Field:      query.SortField(opts.sortBy),
			Descending: opts.descending,
		})
	}

	cursor := tl.Cursor()
	current := ""
	if cursor >= 0 {
		if cur, err := tl.EntryAt(cursor); err == nil {
			current = cur.ID
		}
	}

	for _, entry := range entries {
		marker := " "
		if entry.ID == current {
			marker = ">"
		}
		flags := entryFlags(entry)
		fmt.Printf("%s %s  %-20s %-30s %s\n",
			marker,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			topKind(entry),
			truncate(entry.Description, 30),
			flags)
	}
}

func entryFlags(entry *timeline.Entry) string {
	var parts []string
	if entry.Flags.Checkpoint {
		parts = append(parts, "checkpoint")
	}
	if entry.Flags.AutoSave {
		parts = append(parts, "autosave")
	}
	if entry.Flags.Bookmarked {
		parts = append(parts, "bookmarked")
	}
	if entry.Flags.Starred {
		parts = append(parts, "starred")
	}
	return strings.Join(parts, ",")
}

func topKind(entry *timeline.Entry) string {
	top := entry.TopAction()
	if top == nil {
		return "-"
	}
	if top.IsBatch() {
		return fmt.Sprintf("batch(%d)", len(top.Children))
	}
	return top.Kind.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.file, "file", "", "Path to an exported timeline file")
	flag.StringVar(&opts.file, "f", "", "Path to an exported timeline file (shorthand)")
	flag.StringVar(&opts.configPath, "config", "", "Path to settings file (TOML or YAML)")
	flag.BoolVar(&opts.stats, "stats", false, "Show timeline statistics")
	flag.BoolVar(&opts.verify, "verify", false, "Verify export/import round-trip")
	flag.StringVar(&opts.categories, "categories", "", "Filter by category (comma separated)")
	flag.StringVar(&opts.kinds, "kinds", "", "Filter by action kind (comma separated)")
	flag.StringVar(&opts.text, "text", "", "Filter by description/tag/target text")
	flag.BoolVar(&opts.checkpoints, "checkpoints", false, "Show only checkpoints")
	flag.StringVar(&opts.sortBy, "sort", "", "Sort by field (timestamp, description, actions, severity)")
	flag.BoolVar(&opts.descending, "desc", false, "Sort descending")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "histd - chronicle timeline inspector\n\n")
		fmt.Fprintf(os.Stderr, "Usage: histd -file timeline.json [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  histd -f timeline.json                  List all entries\n")
		fmt.Fprintf(os.Stderr, "  histd -f timeline.json -stats           Show statistics\n")
		fmt.Fprintf(os.Stderr, "  histd -f timeline.json -checkpoints     List checkpoints\n")
		fmt.Fprintf(os.Stderr, "  histd -f timeline.json -text rect       Search descriptions\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("histd %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts
}

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/borrowlab/lifetime"
	"github.com/borrowlab/lifetime/tracker"
)

func main() {
	var (
		name        = flag.String("scenario", "", "Scenario to run (see -list)")
		list        = flag.Bool("list", false, "List scenarios and exit")
		all         = flag.Bool("all", false, "Run every scenario")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("verbose", false, "Enable development logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		lifetime.SetLogger(logger)
	}

	if *list {
		fmt.Println("Scenarios:")
		for _, s := range scenarios {
			fmt.Printf("  %-22s %s\n", s.name, s.desc)
		}
		return
	}

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *name == "" && !*all {
		fmt.Fprintln(os.Stderr, "Usage: demo -scenario <name> [-verbose]")
		fmt.Fprintln(os.Stderr, "       demo -all")
		fmt.Fprintln(os.Stderr, "       demo -list")
		fmt.Fprintln(os.Stderr, "       demo -i  (interactive mode)")
		os.Exit(1)
	}

	selected := scenarios
	if *name != "" {
		s, ok := findScenario(*name)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown scenario %q (see -list)\n", *name)
			os.Exit(1)
		}
		selected = []scenario{s}
	}

	if err := run(selected); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(selected []scenario) error {
	tr := tracker.New()

	for _, s := range selected {
		fmt.Printf("=== %s: %s\n", s.name, s.desc)
		report := func(format string, args ...any) {
			fmt.Printf("    %s\n", fmt.Sprintf(format, args...))
		}
		if err := s.run(tr, report); err != nil {
			return fmt.Errorf("scenario %s: %w", s.name, err)
		}
	}

	fmt.Println("\nTracked groups:")
	tr.Each(func(g tracker.GroupStat) bool {
		state := "live"
		if g.Released {
			state = "released"
		}
		fmt.Printf("  %-14s %s  members=%d owner=%d mutator=%d violations=%d\n",
			g.Label, state, g.Members, g.Owner, g.Mutator, g.Violations)
		return true
	})

	if violations := tr.Violations(); len(violations) > 0 {
		fmt.Printf("\nRecorded violations: %d\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  group %s (%s): owner handle %d closed with live borrows\n",
				v.Group, v.Label, v.Handle)
		}
	}
	return nil
}

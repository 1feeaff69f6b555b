package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-waternet/pkg/logging"
	"github.com/dd0wney/cluso-waternet/pkg/network"
)

func main() {
	allowDup := flag.Bool("allow-duplicate-edges", true, "Report duplicate edges as warnings instead of errors")
	logFile := flag.String("log-file", "", "Write debug logs to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  waternet-tui [flags] <file>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.NewJSONLogger(logOut, logging.DebugLevel)

	n, errs, _, err := network.FromFile(flag.Arg(0),
		network.WithAllowDuplicateEdges(*allowDup),
		network.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load network: %v\n", err)
		os.Exit(1)
	}
	if n == nil {
		fmt.Fprintf(os.Stderr, "Network rejected with %d errors:\n", errs.Len())
		for _, category := range errs.Categories() {
			for _, ve := range errs[category] {
				fmt.Fprintf(os.Stderr, "  - %v\n", ve)
			}
		}
		os.Exit(1)
	}

	m, err := newModel(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

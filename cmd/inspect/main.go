package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/numcore/solver/internal/catalog"
	"github.com/numcore/solver/internal/runlog"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to problems.db")
	last := flag.Int("last", 20, "show N most recent runs")
	problems := flag.Bool("problems", false, "list the problem catalog instead of runs")
	problem := flag.String("problem", "", "show single problem detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/problems.db [--last N] [--problems] [--problem name] [--json]")
		os.Exit(2)
	}

	store, err := catalog.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *problem != "":
		err = runDetailMode(store, *problem, *jsonOut)
	case *problems:
		err = runCatalogMode(store, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run-list

func runListMode(store *catalog.Store, last int, jsonOut bool) error {
	if err := runlog.EnsureSchema(store.DB()); err != nil {
		return err
	}
	entries, err := runlog.Recent(store.DB(), last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no runs logged")
		return nil
	}

	if jsonOut {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%-22s %-15s %-20s %-6s %-18s %s\n",
		"Problem", "Method", "Root", "Iters", "Outcome", "When")
	for _, e := range entries {
		name := e.ProblemName
		if name == "" {
			name = e.Expression
		}
		root := "-"
		if e.Root != nil {
			root = fmt.Sprintf("%.12g", *e.Root)
		}
		outcome := "converged"
		if !e.Converged {
			outcome = e.ErrorCode
			if outcome == "" {
				outcome = "no convergence"
			}
		}
		fmt.Printf("%-22s %-15s %-20s %-6d %-18s %s\n",
			name, e.Method, root, e.Iterations, outcome, e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// #endregion run-list

// #region catalog

func runCatalogMode(store *catalog.Store, jsonOut bool) error {
	problems, err := store.List()
	if err != nil {
		return err
	}
	if jsonOut {
		out, err := json.MarshalIndent(problems, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Printf("%-22s %-28s %-14s %s\n", "Name", "Expression", "Interval", "Known root")
	for _, p := range problems {
		known := "-"
		if p.KnownRoot != nil {
			known = fmt.Sprintf("%.12g", *p.KnownRoot)
		}
		fmt.Printf("%-22s %-28s [%g, %g]%-4s %s\n", p.Name, p.Expression, p.A, p.B, "", known)
	}
	return nil
}

func runDetailMode(store *catalog.Store, name string, jsonOut bool) error {
	p, err := store.GetByName(name)
	if err != nil {
		return err
	}
	if jsonOut {
		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Printf("Name:        %s\n", p.Name)
	fmt.Printf("Expression:  %s\n", p.Expression)
	if p.Derivative != "" {
		fmt.Printf("Derivative:  %s\n", p.Derivative)
	}
	fmt.Printf("Interval:    [%g, %g]\n", p.A, p.B)
	if len(p.Guesses) > 0 {
		fmt.Printf("Guesses:     %v\n", p.Guesses)
	}
	if p.KnownRoot != nil {
		fmt.Printf("Known root:  %.12g\n", *p.KnownRoot)
	}
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	return nil
}

// #endregion catalog

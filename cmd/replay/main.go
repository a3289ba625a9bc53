package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/numcore/solver/internal/catalog"
	"github.com/numcore/solver/internal/evalrpc"
	"github.com/numcore/solver/internal/expr"
	"github.com/numcore/solver/internal/fixture"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to a fixture JSON file")
	fixtureDir := flag.String("dir", "", "directory of fixture JSON files")
	flag.Parse()

	if (*fixturePath == "" && *fixtureDir == "") || (*fixturePath != "" && *fixtureDir != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --dir path/to/fixtures/")
		os.Exit(2)
	}

	ev, closer, err := buildEvaluator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if closer != nil {
		defer closer()
	}

	paths := []string{*fixturePath}
	if *fixtureDir != "" {
		paths, err = filepath.Glob(filepath.Join(*fixtureDir, "*.json"))
		if err != nil || len(paths) == 0 {
			fmt.Fprintf(os.Stderr, "no fixtures found in %s\n", *fixtureDir)
			os.Exit(2)
		}
	}

	failed := 0
	for _, path := range paths {
		f, err := fixture.LoadFixture(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
			os.Exit(2)
		}
		if !printSummary(path, f, fixture.Run(ev, f)) {
			failed++
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d fixtures diverged\n", failed, len(paths))
		os.Exit(1)
	}
	fmt.Printf("\n%d fixtures, all checks passed\n", len(paths))
}

// #endregion main

// #region wiring

func buildEvaluator() (expr.Evaluator, func(), error) {
	if addr := os.Getenv("EVALUATOR_ADDR"); addr != "" {
		client, err := evalrpc.NewClient(addr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect evaluator at %s: %w", addr, err)
		}
		log.Printf("[REPLAY] using evaluation service at %s", addr)
		return client, func() { client.Close() }, nil
	}
	return catalog.Functions(), nil, nil
}

// #endregion wiring

// #region output

func printSummary(path string, f *fixture.Fixture, s fixture.Summary) bool {
	fmt.Printf("%s: %s\n", filepath.Base(path), f.Description)
	fmt.Printf("%-15s| %-6s| %s\n", "Method", "Check", "Detail")
	fmt.Printf("%-15s+%-7s+%s\n", "---------------", "-------", "----------")
	for _, c := range s.Checks {
		status, detail := "OK", "-"
		if !c.Passed {
			status, detail = "DIFF", c.Reason
		}
		fmt.Printf("%-15s| %-6s| %s\n", c.Method, status, detail)
	}
	fmt.Printf("Summary: %d total, %d match, %d diverge\n\n", s.TotalChecks, s.Passed, s.Failed)
	return s.OK()
}

// #endregion output

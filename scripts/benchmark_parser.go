package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Group       string // benchmark function, e.g. "AllocFree_Churn"
	Variant     string // sub-benchmark, e.g. "Balanced"
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	scanner := bufio.NewScanner(os.Stdin)
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		scanner = bufio.NewScanner(f)
	}

	results := parseBenchmarks(scanner)
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	report := generateMarkdownReport(results)

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// BenchmarkAllocFree_Churn/Balanced-8    10000    1245 ns/op    0 B/op    0 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^Benchmark(\S+?)(?:-\d+)?\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+(\d+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		m := benchmarkRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		r := BenchmarkResult{Name: m[1], Group: m[1]}
		if group, variant, ok := strings.Cut(m[1], "/"); ok {
			r.Group, r.Variant = group, variant
		}
		r.Iterations, _ = strconv.Atoi(m[2])
		r.NsPerOp, _ = strconv.ParseFloat(m[3], 64)
		if m[4] != "" {
			r.BytesPerOp, _ = strconv.ParseInt(m[4], 10, 64)
		}
		if m[5] != "" {
			r.AllocsPerOp, _ = strconv.ParseInt(m[5], 10, 64)
		}
		results = append(results, r)
	}
	return results
}

func generateMarkdownReport(results []BenchmarkResult) string {
	groups := make(map[string][]BenchmarkResult)
	var order []string
	for _, r := range results {
		if _, seen := groups[r.Group]; !seen {
			order = append(order, r.Group)
		}
		groups[r.Group] = append(groups[r.Group], r)
	}

	var b strings.Builder
	b.WriteString("# Benchmark Report\n")
	for _, group := range order {
		rs := groups[group]
		sort.Slice(rs, func(i, j int) bool { return rs[i].NsPerOp < rs[j].NsPerOp })

		fmt.Fprintf(&b, "\n## %s\n\n", group)
		b.WriteString("| Variant | ns/op | B/op | allocs/op |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, r := range rs {
			variant := r.Variant
			if variant == "" {
				variant = "-"
			}
			fmt.Fprintf(&b, "| %s | %.1f | %d | %d |\n",
				variant, r.NsPerOp, r.BytesPerOp, r.AllocsPerOp)
		}
	}
	return b.String()
}

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Raiderium/RaiderTools/arena"
	"github.com/spf13/cobra"
)

var (
	benchProfile string
	benchOps     int
	benchLive    int
	benchMaxSize int
	benchSeed    int64
	benchReserve int
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().StringVar(&benchProfile, "profile", "balanced", "Arena profile to use")
	cmd.Flags().IntVar(&benchOps, "ops", 1_000_000, "Number of alloc/free operations")
	cmd.Flags().IntVar(&benchLive, "live", 4096, "Steady-state live cell count")
	cmd.Flags().IntVar(&benchMaxSize, "max-size", 4096, "Largest allocation size in bytes")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Workload RNG seed")
	cmd.Flags().IntVar(&benchReserve, "reserve", 256<<20, "Arena reservation in bytes")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic allocation workload and report arena statistics",
		Long: `The bench command drives an arena with a churn workload: it builds a
pool of live cells, then repeatedly frees a random cell and allocates a new
one of random size. This is the steady-state shape of a frame allocator and
exposes fragmentation and coalescing behavior per profile.

Example:
  raiderctl bench --profile frame --ops 5000000
  raiderctl bench --profile coarse --max-size 65536 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

type benchReport struct {
	Profile    string      `json:"profile"`
	Ops        int         `json:"ops"`
	Elapsed    string      `json:"elapsed"`
	NsPerOp    float64     `json:"nsPerOp"`
	Arena      arena.Stats `json:"arena"`
	FragRatio  float64     `json:"fragRatio"`
	LiveCells  int         `json:"liveCells"`
	MaxAlloc   int         `json:"maxAlloc"`
	WorkloadRq int64       `json:"workloadRequestedBytes"`
}

func runBench() error {
	cfg, err := profileByName(benchProfile)
	if err != nil {
		return err
	}
	a, err := arena.New(benchReserve, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	rng := rand.New(rand.NewSource(benchSeed))
	sizeFor := func() int { return 1 + rng.Intn(benchMaxSize) }

	var requested int64
	refs := make([]arena.Ref, benchLive)
	for i := range refs {
		n := sizeFor()
		requested += int64(n)
		refs[i], _ = a.Alloc(n)
	}

	start := time.Now()
	for i := 0; i < benchOps; i++ {
		slot := rng.Intn(benchLive)
		if err := a.Free(refs[slot]); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		n := sizeFor()
		requested += int64(n)
		refs[slot], _ = a.Alloc(n)
	}
	elapsed := time.Since(start)

	stats := a.Stats()
	report := benchReport{
		Profile:    cfg.Name,
		Ops:        benchOps,
		Elapsed:    elapsed.String(),
		NsPerOp:    float64(elapsed.Nanoseconds()) / float64(benchOps),
		Arena:      stats,
		FragRatio:  float64(stats.FreeBytes) / float64(max(stats.Committed, 1)),
		LiveCells:  benchLive,
		MaxAlloc:   benchMaxSize,
		WorkloadRq: requested,
	}
	if jsonOut {
		return printJSON(report)
	}

	fmt.Printf("profile    %s\n", report.Profile)
	fmt.Printf("ops        %d in %s (%.1f ns/op)\n", report.Ops, report.Elapsed, report.NsPerOp)
	fmt.Printf("committed  %d bytes, %d free cells, %d free bytes (frag %.2f)\n",
		stats.Committed, stats.FreeCells, stats.FreeBytes, report.FragRatio)
	fmt.Printf("grow       %d calls, %d bytes\n", stats.GrowCalls, stats.GrowBytes)
	fmt.Printf("split      %d, coalesce fwd %d, coalesce back %d\n",
		stats.SplitCount, stats.CoalesceForward, stats.CoalesceBackward)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "raiderctl",
	Short: "Inspect and exercise the RaiderTools allocators",
	Long: `raiderctl is a workbench for the RaiderTools memory substrate. It can
print the size-class tables of the arena profiles, run synthetic allocation
workloads against an arena and report allocator statistics, and soak the
reference-counting kernel to surface lifetime bugs under load.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// profileByName maps --profile flag values to arena configs.
func profileNames() []string {
	return []string{"finegrained", "balanced", "coarse", "frame"}
}

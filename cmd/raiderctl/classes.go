package main

import (
	"fmt"
	"strings"

	"github.com/Raiderium/RaiderTools/arena"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes [profile]",
		Short: "Print the size-class table of an arena profile",
		Long: `The classes command prints the free-list size classes a profile
produces: the upper bound of each class and the step to the next one. With no
argument it prints every profile.

Example:
  raiderctl classes
  raiderctl classes frame
  raiderctl classes balanced --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := profileNames()
			if len(args) == 1 {
				names = []string{strings.ToLower(args[0])}
			}
			for _, name := range names {
				cfg, err := profileByName(name)
				if err != nil {
					return err
				}
				if err := printClasses(cfg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func profileByName(name string) (*arena.Config, error) {
	switch name {
	case "finegrained":
		return &arena.ConfigFineGrained, nil
	case "balanced":
		return &arena.ConfigBalanced, nil
	case "coarse":
		return &arena.ConfigCoarse, nil
	case "frame":
		return &arena.ConfigFrame, nil
	default:
		return nil, fmt.Errorf("unknown profile %q (want one of %s)",
			name, strings.Join(profileNames(), ", "))
	}
}

type classTable struct {
	Profile    string  `json:"profile"`
	NumClasses int     `json:"numClasses"`
	Boundaries []int32 `json:"boundaries"`
}

func printClasses(cfg *arena.Config) error {
	bounds := cfg.ClassBoundaries()
	if jsonOut {
		return printJSON(classTable{
			Profile:    cfg.Name,
			NumClasses: len(bounds),
			Boundaries: bounds,
		})
	}

	fmt.Printf("%s: %d classes + large list\n", cfg.Name, len(bounds))
	lo := cfg.SmallMin
	for i, hi := range bounds {
		fmt.Printf("  class %3d: %6d - %6d bytes\n", i, lo, hi)
		lo = hi + 1
	}
	fmt.Printf("  large list: >= %d bytes\n", lo)
	return nil
}

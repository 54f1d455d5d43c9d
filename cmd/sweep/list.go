package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweep/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in scenarios",
	Long:  `Shows every scenario registered with sweep.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	scenarios := registry.List()

	if len(scenarios) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Built-in scenarios:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range scenarios {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %6s  %5s  %s\n", maxIDLen, "ID", "Frames", "Pairs", "Title")
	fmt.Printf("  %-*s  %6s  %5s  %s\n", maxIDLen, "--", "------", "-----", "-----")
	for _, s := range scenarios {
		fmt.Printf("  %-*s  %6d  %5d  %s\n", maxIDLen, s.ID, s.Frames, s.Pairs, s.Title)
	}

	fmt.Println()
	fmt.Println("Run 'sweep run <id>' to check a scenario or 'sweep watch <id>' to view it.")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/npcnav/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List embedded levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := levels.List()
		if len(names) == 0 {
			fmt.Println("No levels embedded.")
			return nil
		}
		for _, name := range names {
			lvl, err := levels.LoadLevelFromFS(name)
			if err != nil {
				return err
			}
			fmt.Printf("  %-12s  %3dx%-3d  %d entities\n", name, lvl.Width, lvl.Height, len(lvl.Entities))
		}
		return nil
	},
}

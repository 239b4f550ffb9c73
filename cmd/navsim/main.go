// navsim runs the navigation stack headless against a level.
//
// Usage:
//
//	navsim run              - Simulate agents and print their events
//	navsim grid             - Print the built nav mesh as text
//	navsim graph            - Print platforms, connections and agent routes
//	navsim levels           - List embedded levels
//
// Global flags:
//
//	--level <name>  - Level to load (default: demo.json)
//	--fps <rate>    - Simulation tick rate (default: 60)
//	--debug         - Enable debug logging
//	--prefabs <dir> - Directory checked for prefab overrides (default: prefabs)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/npcnav/ecs"
	"github.com/milk9111/npcnav/ecs/entity"
	"github.com/milk9111/npcnav/navmesh"
	"github.com/milk9111/npcnav/pathing"
	"github.com/milk9111/npcnav/prefabs"
)

var (
	flagLevel   string
	flagFPS     int
	flagDebug   bool
	flagPrefabs string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "navsim",
	Short: "Headless simulator for platformer NPC navigation",
	Long: `navsim loads a level, builds its nav mesh and drives every pathing
agent in it without a renderer.

Examples:
  navsim levels
  navsim grid --level flat.json
  navsim run --frames 600
  navsim graph --routes`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(flagDebug)
		prefabs.SetDiskRoot(flagPrefabs)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "demo.json", "Level name in levels/")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagPrefabs, "prefabs", "prefabs", "Directory checked for prefab and script overrides")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(levelsCmd)
}

func configureLogging(debug bool) {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	l := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	log.SetDefault(l)
	navmesh.SetLogger(l.WithPrefix("navmesh"))
	pathing.SetLogger(l.WithPrefix("pathing"))
	ecs.SetLogger(l.WithPrefix("physics"))
	entity.SetLogger(l.WithPrefix("entity"))
}

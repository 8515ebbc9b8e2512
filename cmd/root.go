package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/hKV/cmd/trace"
	"github.com/ValentinKolb/hKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "hkv",
		Short: "handle history store",
		Long: fmt.Sprintf(`hKV (v%s)

An in-memory versioned lookup library written in Go. Handles map to
chains of timestamped values, and point-in-time queries return the
value that was current at a given moment.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(trace.TraceCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "engine"
	RootCmd.PersistentFlags().String(key, "chain", util.WrapString("history engine to use (chain, arena)"))
	key = "capacity"
	RootCmd.PersistentFlags().Int(key, 64, util.WrapString("preallocation hint for the handle table"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

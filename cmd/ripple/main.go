// Command ripple is a sandbox of growing circular activators that play the notes they reach
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/ripple/core"
)

var (
	debugFlag bool
	logFile   *os.File

	rootCmd = &cobra.Command{
		Use:   "ripple",
		Short: "Place notes and activators, then watch the cascade play them",
		Long: `Ripple is a terminal music sandbox. Activators grow circles from their
center; a circle that reaches a note plays it, one that reaches another
activator enables it, and the cascade runs until nothing is left to reach.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(debugFlag)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write debug logs to "+logDir+"/"+logFileName)
	rootCmd.AddCommand(playCmd, simulateCmd, levelsCmd)
}

func main() {
	// Panic recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// The vmcore command drives a memory manager with a synthetic paging
// workload, serving diagnostics and recording statistics along the way.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use: "vmcore",
	Short: "vmcore exercises the virtual memory core with synthetic " +
		"workloads.",
	Long: `vmcore exercises the virtual memory core with synthetic ` +
		`workloads. It can serve live diagnostics over HTTP and record ` +
		`statistics snapshots into a SQLite database.`,
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

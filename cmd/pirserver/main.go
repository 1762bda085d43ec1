// Command pirserver wires config, logging, db, rcu, lane, and server
// together into a running process. Its cobra subcommands mirror the
// three things an operator does to this system: start it (serve),
// publish a new lane's state (build-lane), and ask a running process to
// pick up newly published state (reload).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{Use: "pirserver"}
	root.AddCommand(serveCmd())
	root.AddCommand(buildLaneCmd())
	root.AddCommand(reloadCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

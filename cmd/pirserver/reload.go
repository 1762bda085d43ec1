package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
)

func reloadCmd() *cobra.Command {
	var pid int

	cmd := &cobra.Command{
		Use:   "reload",
		Short: "ask a running pirserver process to reload its lanes",
		Long:  "Sends SIGHUP to --pid. serve installs a SIGHUP handler that triggers\nserver.Reloader.Trigger(), which debounces and single-flights the rebuild.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pid <= 0 {
				return fmt.Errorf("reload: --pid is required")
			}
			return syscall.Kill(pid, syscall.SIGHUP)
		},
	}
	cmd.Flags().IntVar(&pid, "pid", 0, "pid of the running pirserver process (required)")
	_ = cmd.MarkFlagRequired("pid")
	return cmd
}

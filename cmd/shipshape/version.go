package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "shipshape %s\ncommit: %s\nbuilt: %s\ngo: %s\n",
				resolveVersion(), commit, date, runtime.Version())
			return nil
		},
	}

	return cmd
}

// resolveVersion prefers the release version injected via ldflags and falls
// back to the module version stamped into the binary, so plain `go install`
// builds still report something meaningful.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return version
}

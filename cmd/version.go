package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Version returns a `version` command printing the commit the binary is built from.
func Version(name string) *cobra.Command {
	name = strings.TrimSpace(name)

	short := "Print version"
	if name != "" {
		short = "Print " + name + " version"
	}

	return &cobra.Command{
		Use:                   "version",
		Short:                 short,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		Run: func(cmd *cobra.Command, _ []string) {
			info := readBuildInfo()

			prefix := "version"
			if name != "" {
				prefix = name + " version"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s from %s (%s)\n", prefix, info.revision(), info.time(), runtime.Version())
		},
	}
}

type buildInfo struct {
	hash     string
	ts       string
	modified bool
}

// revision is @latest for binaries built from uncommitted code, or without vcs information at all,
// e.g. by `go run` and `go test`.
func (b buildInfo) revision() string {
	if b.modified || b.hash == "" {
		return "@latest"
	}

	return b.hash
}

func (b buildInfo) time() string {
	if b.modified || b.ts == "" {
		return time.Now().UTC().Format(time.RFC3339)
	}

	return b.ts
}

func readBuildInfo() buildInfo {
	var b buildInfo

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.hash = setting.Value
		case "vcs.time":
			b.ts = setting.Value
		case "vcs.modified":
			b.modified = setting.Value == "true"
		}
	}

	return b
}

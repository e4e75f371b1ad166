package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/klazic/trigo/internal/quiz"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "trigo", buildVersion())
		if b, err := quiz.DefaultBank(); err == nil {
			fmt.Fprintln(out, "built-in bank", b.Version())
		}
	},
}

// buildVersion prefers the linker-provided version and falls back to the
// module version recorded by `go install`.
func buildVersion() string {
	if semver.IsValid(version) {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && semver.IsValid(info.Main.Version) {
		return info.Main.Version
	}
	return version
}

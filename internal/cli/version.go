package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/tripkit-labs/tripkit/internal/branding"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the --json payload. The semver fields are omitted for
// builds whose version is not a semantic version (e.g. "dev").
type versionInfo struct {
	Version    string  `json:"version"`
	Commit     string  `json:"commit"`
	Date       string  `json:"date"`
	Major      *uint64 `json:"major,omitempty"`
	Minor      *uint64 `json:"minor,omitempty"`
	Patch      *uint64 `json:"patch,omitempty"`
	Prerelease string  `json:"prerelease,omitempty"`
}

func newVersionInfo(version, commit, date string) versionInfo {
	info := versionInfo{Version: version, Commit: commit, Date: date}
	sv, err := semver.NewVersion(version)
	if err != nil {
		return info
	}
	major, minor, patch := sv.Major(), sv.Minor(), sv.Patch()
	info.Major, info.Minor, info.Patch = &major, &minor, &patch
	info.Prerelease = sv.Prerelease()
	return info
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			data, err := json.MarshalIndent(newVersionInfo(buildVersion, buildCommit, buildDate), "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		return nil
	},
}

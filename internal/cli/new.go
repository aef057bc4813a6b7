package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripkit-labs/tripkit/internal/notify"
	"github.com/tripkit-labs/tripkit/internal/prompt"
	"github.com/tripkit-labs/tripkit/internal/scaffold"
	"github.com/tripkit-labs/tripkit/internal/trip"
	"github.com/tripkit-labs/tripkit/internal/tripinit"
	"github.com/tripkit-labs/tripkit/internal/vault"
)

// errStepsFailed makes the process exit non-zero after a partial failure.
// The individual failures have already been printed.
var errStepsFailed = errors.New("some entries could not be created")

var (
	newDestination string
	newMonth       string
	newDays        int
	newVault       string
	newRoot        string
	newNoInput     bool
)

// promptDriver is swapped out in tests.
var promptDriver = func() prompt.Driver { return prompt.NewSurveyDriver() }

func init() {
	newCmd.Flags().StringVarP(&newDestination, "destination", "d", "", "Where the trip goes")
	newCmd.Flags().StringVarP(&newMonth, "month", "m", "", "When the trip happens (e.g. 2026-05 or May)")
	newCmd.Flags().IntVar(&newDays, "days", 0, "Trip length in days (optional)")
	newCmd.Flags().StringVar(&newVault, "vault", "", "Vault directory (overrides the vault setting)")
	newCmd.Flags().StringVar(&newRoot, "root", "", "Folder inside the vault that holds trips (overrides root_folder)")
	newCmd.Flags().BoolVar(&newNoInput, "no-input", false, "Never prompt; fail when destination or month is missing")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a trip folder with an itinerary and a packing list",
	Long: `Create a trip folder named "<destination>-<month>" under the trips folder of
your vault, then add "Trip Itinerary.md" and "Packing List.md" to it.

Notes are copied from your templates when they exist, otherwise a built-in
starter body is used. Anything that already exists is left untouched, so the
command is safe to run again.`,
	Example: `  tripkit new --destination Lisbon --month 2026-05
  tripkit new -d Kyoto -m April --days 10
  tripkit new            # asks for the details`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func runNew(cmd *cobra.Command, _ []string) error {
	if newDays < 0 {
		return fmt.Errorf("--days must be zero or more, got %d", newDays)
	}

	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	req := trip.Request{Destination: newDestination, Month: newMonth, DurationDays: newDays}
	if err := req.Validate(); err != nil {
		if newNoInput {
			return err
		}
		req, err = prompt.Collect(ctx, promptDriver(), req)
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled, nothing was created.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	vaultDir := inv.settings.Vault
	if newVault != "" {
		vaultDir = newVault
	}
	rootFolder := inv.settings.RootFolder
	if newRoot != "" {
		rootFolder = newRoot
	}

	v, err := vault.Open(vaultDir)
	if err != nil {
		return err
	}

	printer := notify.NewPrinter(cmd.OutOrStdout())
	svc := tripinit.New(scaffold.New(v), printer)
	reports, err := svc.Create(ctx, req, tripinit.Options{
		RootFolder: rootFolder,
		Templates:  inv.settings.TemplateSources(),
	})
	if err != nil {
		return err
	}
	printer.Summary(reports)

	if tripinit.Failed(reports) {
		return errStepsFailed
	}
	return nil
}

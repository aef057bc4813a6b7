package cli

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tripkit-labs/tripkit/internal/config"
	"github.com/tripkit-labs/tripkit/internal/notify"
	"github.com/tripkit-labs/tripkit/internal/scaffold"
	"github.com/tripkit-labs/tripkit/internal/trip"
	"github.com/tripkit-labs/tripkit/internal/vault"
)

const configFileLabel = "config file"

var initVault string

func init() {
	initCmd.Flags().StringVar(&initVault, "vault", "", "Vault directory to record in the config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the config file and seed the template notes",
	Long: `Write ~/.tripkit/config.yaml with every default when it does not exist yet,
then create the configured template notes inside the vault using the
built-in starter bodies. Edit those notes to change what new trips start with.

Nothing that already exists is overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	inv, err := loadInvocation()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	printer := notify.NewPrinter(cmd.OutOrStdout())

	reports := []scaffold.Report{writeConfig(inv.store)}
	printer.Report(reports[0])

	if initVault != "" {
		abs, err := filepath.Abs(initVault)
		if err != nil {
			return fmt.Errorf("resolving vault directory %s: %w", initVault, err)
		}
		if err := inv.store.Set(config.KeyVault, abs); err != nil {
			return fmt.Errorf("recording vault: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", config.KeyVault, abs)
		if inv.settings, err = inv.store.Settings(); err != nil {
			return err
		}
	}

	v, err := vault.Open(inv.settings.Vault)
	if err != nil {
		return err
	}

	seeded := seedTemplates(ctx, scaffold.New(v), inv.settings.TemplateSources())
	for _, r := range seeded {
		printer.Report(r)
	}
	reports = append(reports, seeded...)
	printer.Summary(reports)

	if scaffold.Summarize(reports).Failed > 0 {
		return errStepsFailed
	}
	return nil
}

func writeConfig(store *config.Store) scaffold.Report {
	r := scaffold.Report{Label: configFileLabel, Path: store.Path(), Kind: scaffold.KindDocument}
	created, err := store.WriteDefaults()
	switch {
	case err != nil:
		r.Outcome = scaffold.Failed(err)
	case created:
		r.Outcome = scaffold.Created()
	default:
		r.Outcome = scaffold.AlreadyExists()
	}
	return r
}

// seedTemplates creates each template's parent folder and then the template
// itself with the built-in body for its label.
func seedTemplates(ctx context.Context, engine *scaffold.Engine, templates scaffold.Templates) []scaffold.Report {
	var reports []scaffold.Report
	seen := make(map[string]bool)

	for _, label := range trip.Labels() {
		src, ok := templates[label]
		if !ok {
			continue
		}
		dir := path.Dir(src.Path)
		if dir == "." || dir == "/" || seen[dir] {
			continue
		}
		seen[dir] = true
		reports = append(reports, engine.EnsureFolder(ctx, "templates folder", dir))
	}

	for _, label := range trip.Labels() {
		src, ok := templates[label]
		if !ok {
			continue
		}
		body := scaffold.DefaultBody(label)
		reports = append(reports, engine.EnsureDocument(ctx, label+" template", src.Path,
			func(context.Context) (string, string) { return body, "" }))
	}
	return reports
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tripkit-labs/tripkit/internal/config"
	"github.com/tripkit-labs/tripkit/internal/trip"
	"github.com/tripkit-labs/tripkit/internal/vault"
)

var errDoctorProblems = errors.New("doctor found problems")

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the config file, vault, and templates",
	Long: `Run diagnostic checks on your TripKit setup: the config file, the vault
directory, the trips folder, and each configured template.

[MISS] and [WARN] lines are informational; tripkit new still works and uses
the built-in bodies. [FAIL] lines need fixing and make the command exit
non-zero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd.Context(), cmd.OutOrStdout())
	},
}

type checker struct {
	w        io.Writer
	problems int
}

func (c *checker) section(name string) { fmt.Fprintf(c.w, "%s:\n", name) }

func (c *checker) ok(format string, a ...any) { c.line("[ OK ]", format, a...) }

func (c *checker) miss(format string, a ...any) { c.line("[MISS]", format, a...) }

func (c *checker) warn(format string, a ...any) { c.line("[WARN]", format, a...) }

func (c *checker) fail(format string, a ...any) {
	c.problems++
	c.line("[FAIL]", format, a...)
}

func (c *checker) line(tag, format string, a ...any) {
	fmt.Fprintf(c.w, "  %s %s\n", tag, fmt.Sprintf(format, a...))
}

func runDoctor(ctx context.Context, w io.Writer) error {
	c := &checker{w: w}

	c.section("Config")
	settings, ok := checkConfig(c)
	if !ok {
		return errDoctorProblems
	}

	c.section("Vault")
	v, err := vault.Open(settings.Vault)
	if err != nil {
		c.fail("%v", err)
		return errDoctorProblems
	}
	c.ok("vault %s", settings.Vault)
	checkRootFolder(ctx, c, v, settings.RootFolder)

	c.section("Templates")
	checkTemplates(ctx, c, v, settings)

	if c.problems > 0 {
		return errDoctorProblems
	}
	return nil
}

func checkConfig(c *checker) (config.Settings, bool) {
	path := configPath()
	store, err := config.LoadFile(path)
	if err != nil {
		var invalid *config.InvalidError
		if errors.As(err, &invalid) {
			c.fail("%s does not match the settings schema", invalid.Path)
			for _, issue := range invalid.Issues {
				fmt.Fprintf(c.w, "         %s\n", issue)
			}
		} else {
			c.fail("%v", err)
		}
		return config.Settings{}, false
	}

	if _, err := os.Stat(path); err == nil {
		c.ok("config file %s", path)
	} else {
		c.miss("config file %s not found, defaults in use (run '%s init')", path, rootCmd.Name())
	}

	settings, err := store.Settings()
	if err != nil {
		c.fail("%v", err)
		return config.Settings{}, false
	}
	if err := setupLogging(settings.Environment); err != nil {
		c.warn("logging setup failed: %v", err)
	}
	return settings, true
}

func checkRootFolder(ctx context.Context, c *checker, v vault.Vault, root string) {
	exists, err := v.Exists(ctx, root)
	if err != nil {
		c.fail("trips folder %s: %v", root, err)
		return
	}
	if !exists {
		c.miss("trips folder %s does not exist yet, the first '%s new' creates it", root, rootCmd.Name())
		return
	}
	isDoc, err := v.IsDocument(ctx, root)
	if err != nil {
		c.fail("trips folder %s: %v", root, err)
		return
	}
	if isDoc {
		c.fail("trips folder %s is a document, not a folder", root)
		return
	}
	c.ok("trips folder %s", root)
}

func checkTemplates(ctx context.Context, c *checker, v vault.Vault, settings config.Settings) {
	templates := settings.TemplateSources()
	for _, label := range trip.Labels() {
		src, ok := templates[label]
		if !ok {
			c.miss("%s: no template configured, built-in body in use", label)
			continue
		}
		isDoc, err := v.IsDocument(ctx, src.Path)
		if err != nil {
			c.warn("%s template %s: %v", label, src.Path, err)
			continue
		}
		if isDoc {
			c.ok("%s template %s", label, src.Path)
			continue
		}
		exists, err := v.Exists(ctx, src.Path)
		if err == nil && exists {
			c.warn("%s template %s is not a document, built-in body in use", label, src.Path)
			continue
		}
		c.miss("%s template %s not found, built-in body in use", label, src.Path)
	}
}

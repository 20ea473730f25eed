package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/petal-labs/musicbridge/tool"
)

// NewCheckCmd creates the "check" subcommand.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [manifest-file]",
		Short: "Check that a manifest is in sync with the tool registry",
		Long: "Check that a manifest lists exactly the registered tools with matching permissions and parameters.\n" +
			"Without a file, the generated manifest is checked.",
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")

	s, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())
	c, _ := s.adapter.Context(s.handle)

	manifest := c.Manifest()
	if len(args) == 1 {
		manifest, err = tool.LoadManifestFile(args[0])
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return exitError(exitFileNotFound, "file not found: %s", args[0])
			}
			return exitError(exitInputParse, "%v", err)
		}
	}

	result := tool.ValidateManifest(manifest, c.Registry())
	printDiagnostics(cmd.OutOrStdout(), result.Diagnostics, format)

	if result.HasErrors() || (strict && len(result.Diagnostics) > 0) {
		return exitError(exitValidation, "manifest check failed")
	}
	return nil
}

func printDiagnostics(w io.Writer, diags []tool.Diagnostic, format string) {
	if format == "json" {
		// Output an empty array rather than null when there are no diagnostics.
		if diags == nil {
			diags = []tool.Diagnostic{}
		}
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(diags)
		return
	}

	var errs, warns int
	for _, d := range diags {
		if d.Severity == tool.SeverityError {
			errs++
		} else {
			warns++
		}
		fmt.Fprintf(w, "%s [%s]: %s (at %s)\n", strings.ToUpper(string(d.Severity)), d.Code, d.Message, d.Field)
	}

	switch {
	case errs == 0 && warns == 0:
		fmt.Fprintln(w, "In sync!")
	case errs == 0:
		fmt.Fprintf(w, "\nIn sync! (%d %s)\n", warns, pluralize("warning", warns))
	default:
		fmt.Fprintf(w, "\n%d %s, %d %s\n", errs, pluralize("error", errs), warns, pluralize("warning", warns))
	}
}

// pluralize returns the singular or plural form of a word based on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewManifestCmd creates the "manifest" subcommand.
func NewManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the plugin manifest generated from the tool registry",
		Args:  cobra.NoArgs,
		RunE:  runManifest,
	}
	cmd.Flags().StringP("output", "o", "", "Write the manifest to file (default: stdout)")
	return cmd
}

func runManifest(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())

	manifest := s.adapter.Describe(s.handle)
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), manifest)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(manifest+"\n"), 0o644); err != nil {
		return exitError(exitRuntime, "writing manifest: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote manifest: %s\n", outputPath)
	return nil
}

// NewToolsCmd creates the "tools" subcommand.
func NewToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools",
		Args:  cobra.NoArgs,
		RunE:  runTools,
	}
}

func runTools(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())

	c, _ := s.adapter.Context(s.handle)
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tPERMISSION\tNEEDS MUSIC\tPARAMETERS\tDESCRIPTION")
	for _, spec := range c.Registry().Specs() {
		params := strings.Join(spec.ParameterNames(), ",")
		if params == "" {
			params = "-"
		}
		needsMusic := "no"
		if spec.RequiresApp {
			needsMusic = "yes"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			spec.ID,
			spec.Permission,
			needsMusic,
			params,
			spec.Description,
		)
	}
	return writer.Flush()
}

// NewStatusCmd creates the "status" subcommand.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the Music app is running",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())

	c, _ := s.adapter.Context(s.handle)
	if c.MusicRunning(cmd.Context()) {
		fmt.Fprintln(cmd.OutOrStdout(), "Music: running")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Music: not running")
	return nil
}

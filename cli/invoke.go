package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/petal-labs/musicbridge/tool"
)

// NewInvokeCmd creates the "invoke" subcommand.
func NewInvokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <tool> [payload]",
		Short: "Invoke a tool and print its JSON result",
		Long: "Invoke a tool through the plugin boundary and print its JSON result.\n" +
			"The payload is a JSON object; it may come from the second argument or --payload-file (- for stdin).",
		Args: cobra.RangeArgs(1, 2),
		RunE: runInvoke,
	}
	cmd.Flags().String("type", tool.CapabilityTool, "Capability type to invoke")
	cmd.Flags().StringP("payload-file", "f", "", "Read the payload from file (- for stdin)")
	cmd.Flags().Bool("journal", false, "Record the invocation in the journal even if disabled in config")
	cmd.Flags().Bool("metrics", false, "Print invocation metrics to stderr after the result")
	return cmd
}

func runInvoke(cmd *cobra.Command, args []string) error {
	toolID := args[0]
	payload, err := resolvePayload(cmd, args)
	if err != nil {
		return err
	}
	capabilityType, _ := cmd.Flags().GetString("type")
	withJournal, _ := cmd.Flags().GetBool("journal")
	withMetrics, _ := cmd.Flags().GetBool("metrics")

	s, err := openSession(cmd, sessionOptions{journal: withJournal, metrics: withMetrics})
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())

	c, _ := s.adapter.Context(s.handle)
	result := c.Invoke(cmd.Context(), capabilityType, toolID, payload)
	fmt.Fprintln(cmd.OutOrStdout(), result)

	if withMetrics {
		if err := printMetrics(cmd, s); err != nil {
			return err
		}
	}
	if code := tool.ErrorCode(result); code != "" {
		return exitError(exitRuntime, "%s: %s", toolID, code)
	}
	return nil
}

func printMetrics(cmd *cobra.Command, s *session) error {
	points, err := s.telemetry.Snapshot(cmd.Context())
	if err != nil {
		return exitError(exitRuntime, "collecting metrics: %v", err)
	}

	writer := tabwriter.NewWriter(cmd.ErrOrStderr(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "METRIC\tTOOL\tERROR\tCOUNT\tSUM")
	for _, p := range points {
		code := p.ErrorCode
		if code == "" {
			code = "-"
		}
		sum := "-"
		if p.Sum != 0 {
			sum = strconv.FormatFloat(p.Sum, 'f', 3, 64)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n", p.Name, p.ToolID, code, p.Count, sum)
	}
	return writer.Flush()
}

func resolvePayload(cmd *cobra.Command, args []string) (string, error) {
	payloadFile, _ := cmd.Flags().GetString("payload-file")
	if len(args) == 2 && payloadFile != "" {
		return "", exitError(exitInputParse, "pass the payload as an argument or with --payload-file, not both")
	}
	if len(args) == 2 {
		return args[1], nil
	}
	if payloadFile == "" {
		return "", nil
	}

	var (
		data []byte
		err  error
	)
	if payloadFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		// #nosec G304 -- path supplied by the local user.
		data, err = os.ReadFile(payloadFile)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", exitError(exitFileNotFound, "file not found: %s", payloadFile)
		}
		return "", exitError(exitInputParse, "reading payload: %v", err)
	}
	return string(data), nil
}

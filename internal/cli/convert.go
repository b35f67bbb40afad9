package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treeline-io/treeline/pkg/codec"
	"github.com/treeline-io/treeline/pkg/errors"
)

// convertCommand creates the convert command for translating between formats.
//
// The input format is inferred from the file extension unless --from is
// given. Conversions through the text or xml formats are lossy: category
// and color styling is dropped and re-derived on the way back in.
func (c *CLI) convertCommand() *cobra.Command {
	var fromStr, toStr, output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a mind map between json, text, and xml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], fromStr, toStr, output)
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "input format: json, text, xml (default: inferred from extension)")
	cmd.Flags().StringVarP(&toStr, "to", "t", "", "output format: json, text, xml (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(input, fromStr, toStr, output string) error {
	if fromStr == "" {
		fromStr = formatFromExt(input)
	}
	from, err := codec.ParseFormat(fromStr)
	if err != nil {
		return err
	}
	to, err := codec.ParseFormat(toStr)
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", input)
	}
	defer f.Close()

	doc, err := codec.Decode(from, f)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.Encode(doc, to, &buf); err != nil {
		return err
	}

	if output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}

	printSuccess("Converted %s → %s", fromStr, toStr)
	printFile(output)
	if from == codec.FormatJSON && to != codec.FormatJSON {
		printWarning("styling is dropped in the %s format", to)
	}
	return nil
}

// formatFromExt infers a codec format name from a file extension.
func formatFromExt(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "json"
	case ".xml":
		return "xml"
	default:
		return "text"
	}
}

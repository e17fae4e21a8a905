package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/killallgit/mask-editor-api/pkg/maskfile"
)

// masksCmd groups the offline mask file tools
var masksCmd = &cobra.Command{
	Use:   "masks",
	Short: "Work with stored mask sets",
	Long: `Validate and convert mask set files (JSON or YAML).

Mask geometry leaves the editor in overlay surface pixels. convert maps it
onto the video's native pixel grid using the same per-axis scale the overlay
was fitted with.`,
}

var masksValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a mask file",
	Long: `Check every mask in a file: positive size, non-negative position,
a time window of at least 0.1s inside [0, duration], and unique ids.`,
	Example: `  mask-editor-api masks validate --in masks.json`,
	RunE:    runMasksValidate,
}

var masksConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Map a mask file onto the native video grid",
	Long: `Rescale surface-space masks to native video pixels.

--surface defaults to the size recorded in the file.`,
	Example: `  mask-editor-api masks convert --in masks.json --native 1920x1080
  mask-editor-api masks convert --in masks.yaml --surface 640x360 --native 1920x1080 --format json --out native.json`,
	RunE: runMasksConvert,
}

func init() {
	rootCmd.AddCommand(masksCmd)
	masksCmd.AddCommand(masksValidateCmd)
	masksCmd.AddCommand(masksConvertCmd)

	masksCmd.PersistentFlags().String("in", "", "mask file to read (.json, .yaml or .yml)")
	_ = masksCmd.MarkPersistentFlagRequired("in")

	masksConvertCmd.Flags().String("surface", "", "surface size WIDTHxHEIGHT the masks were drawn on")
	masksConvertCmd.Flags().String("native", "", "native video size WIDTHxHEIGHT")
	masksConvertCmd.Flags().String("format", "", "output format, json or yaml (default: input format)")
	masksConvertCmd.Flags().String("out", "", "output file (default: stdout)")
	_ = masksConvertCmd.MarkFlagRequired("native")
}

func runMasksValidate(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")

	f, err := maskfile.Load(in)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%s is invalid:\n%w", in, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d mask(s) OK\n", in, len(f.Masks))
	return nil
}

func runMasksConvert(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	surfaceFlag, _ := cmd.Flags().GetString("surface")
	nativeFlag, _ := cmd.Flags().GetString("native")
	formatFlag, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	f, err := maskfile.Load(in)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%s is invalid:\n%w", in, err)
	}

	if surfaceFlag != "" {
		surface, err := maskfile.ParseSize(surfaceFlag)
		if err != nil {
			return err
		}
		f.Size = surface
	}
	native, err := maskfile.ParseSize(nativeFlag)
	if err != nil {
		return err
	}

	converted, err := f.ToNative(native)
	if err != nil {
		return err
	}

	format, err := outputFormat(formatFlag, outPath, in)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		fh, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer fh.Close()
		w = fh
	}
	return maskfile.Encode(w, converted, format)
}

// outputFormat prefers --format, then the output extension, then the input's
func outputFormat(flag, outPath, inPath string) (maskfile.Format, error) {
	if flag != "" {
		return maskfile.ParseFormat(flag)
	}
	if outPath != "" {
		if f, err := maskfile.FormatFromPath(outPath); err == nil {
			return f, nil
		}
	}
	return maskfile.FormatFromPath(inPath)
}

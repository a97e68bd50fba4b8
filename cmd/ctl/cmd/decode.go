package cmd

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/jpfielding/jpegb.go/pkg/compress/baseline"
	"github.com/jpfielding/jpegb.go/pkg/logging"
	"github.com/spf13/cobra"
)

// NewDecodeCmd converts a baseline JPEG to PNG
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [input]",
		Short: "decode a baseline JPEG to PNG",
		Long:  "Decodes a baseline JPEG and writes the pixels as PNG.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			input, _ := cmd.Flags().GetString("in")
			if input == "" && len(args) > 0 {
				input = args[0]
			}
			output, _ := cmd.Flags().GetString("out")
			insecure, _ := cmd.Flags().GetBool("insecure")
			name, _ := cmd.Flags().GetString("filter")
			filter, err := baseline.ParseFilter(name)
			if err != nil {
				return err
			}

			ctx := logging.AppendCtx(ctx, slog.String("cmd", "decode"), slog.String("in", input))
			in, err := openInput(ctx, input, insecure)
			if err != nil {
				return err
			}
			defer in.Close()
			img, err := baseline.DecodeFiltered(in, filter)
			if err != nil {
				return fmt.Errorf("failed to decode: %w", err)
			}

			out, err := createOutput(cmd, output)
			if err != nil {
				return err
			}
			defer closeOutput(out, &err)
			if err := png.Encode(out, img); err != nil {
				return fmt.Errorf("failed to write png: %w", err)
			}
			slog.InfoContext(ctx, "decoded", slog.Int("width", img.Bounds().Dx()), slog.Int("height", img.Bounds().Dy()))
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input JPEG: path, - for stdin, or http(s) URL")
	pf.StringP("out", "o", "-", "output PNG path, - for stdout")
	pf.String("filter", "bicubic", "chroma upsampling filter (bicubic|bilinear|lanczos|nearest)")
	pf.Bool("insecure", false, "skip TLS verification for URL inputs")
	return cmd
}

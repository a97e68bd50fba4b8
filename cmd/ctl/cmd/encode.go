package cmd

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/png"
	"log/slog"

	"github.com/disintegration/gift"
	"github.com/jpfielding/jpegb.go/pkg/compress/baseline"
	"github.com/jpfielding/jpegb.go/pkg/logging"
	"github.com/nfnt/resize"
	"github.com/spf13/cobra"
)

// NewEncodeCmd compresses a PNG, GIF or JPEG into a baseline JPEG
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [input]",
		Short: "encode an image as baseline JPEG",
		Long:  "Reads a PNG, GIF or baseline JPEG and writes a baseline JPEG with optimal Huffman tables.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			input, _ := cmd.Flags().GetString("in")
			if input == "" && len(args) > 0 {
				input = args[0]
			}
			output, _ := cmd.Flags().GetString("out")
			insecure, _ := cmd.Flags().GetBool("insecure")
			grey, _ := cmd.Flags().GetBool("grey")
			blur, _ := cmd.Flags().GetFloat64("blur")
			maxDim, _ := cmd.Flags().GetUint("max-dim")
			sub, _ := cmd.Flags().GetString("subsampling")
			filter, _ := cmd.Flags().GetString("filter")

			opts := baseline.DefaultOptions()
			opts.Quality, _ = cmd.Flags().GetInt("quality")
			opts.RestartInterval, _ = cmd.Flags().GetInt("restart")
			opts.MaxScanBytes, _ = cmd.Flags().GetInt("max-scan-bytes")
			if opts.Subsampling, err = baseline.ParseSubsampling(sub); err != nil {
				return err
			}
			if opts.Filter, err = baseline.ParseFilter(filter); err != nil {
				return err
			}

			ctx := logging.AppendCtx(ctx, slog.String("cmd", "encode"), slog.String("in", input))
			in, err := openInput(ctx, input, insecure)
			if err != nil {
				return err
			}
			defer in.Close()
			img, format, err := image.Decode(in)
			if err != nil {
				return fmt.Errorf("failed to decode input: %w", err)
			}
			img = prepare(img, maxDim, blur, grey)

			out, err := createOutput(cmd, output)
			if err != nil {
				return err
			}
			defer closeOutput(out, &err)
			if err := baseline.Encode(out, img, opts); err != nil {
				return fmt.Errorf("failed to encode: %w", err)
			}
			slog.InfoContext(ctx, "encoded",
				slog.String("format", format),
				slog.Int("width", img.Bounds().Dx()), slog.Int("height", img.Bounds().Dy()),
				slog.Int("quality", opts.Quality), slog.String("subsampling", opts.Subsampling.String()))
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input image: path, - for stdin, or http(s) URL")
	pf.StringP("out", "o", "-", "output JPEG path, - for stdout")
	pf.IntP("quality", "q", 75, "quality 1-100")
	pf.StringP("subsampling", "s", "420", "chroma subsampling (444|422|420)")
	pf.Int("restart", 0, "MCUs between restart markers, 0 for none")
	pf.Int("max-scan-bytes", 0, "fail if the entropy-coded data grows beyond this many bytes")
	pf.Bool("grey", false, "encode a single luminance component")
	pf.Float64("blur", 0, "gaussian blur sigma applied before encoding, 0 for none")
	pf.Uint("max-dim", 0, "shrink the image to fit within this many pixels per side, 0 to keep")
	pf.String("filter", "bicubic", "chroma downsampling filter (bicubic|bilinear|lanczos|nearest)")
	pf.Bool("insecure", false, "skip TLS verification for URL inputs")
	return cmd
}

// prepare applies the optional pre-encode steps: shrink to fit maxDim,
// gaussian blur, then greyscale.
func prepare(img image.Image, maxDim uint, blur float64, grey bool) image.Image {
	if b := img.Bounds(); maxDim > 0 && (uint(b.Dx()) > maxDim || uint(b.Dy()) > maxDim) {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	}
	var filters []gift.Filter
	if blur > 0 {
		filters = append(filters, gift.GaussianBlur(float32(blur)))
	}
	if grey {
		filters = append(filters, gift.Grayscale())
	}
	if len(filters) == 0 {
		return img
	}
	g := gift.New(filters...)
	var dst draw.Image = image.NewRGBA(g.Bounds(img.Bounds()))
	if grey {
		dst = image.NewGray(g.Bounds(img.Bounds()))
	}
	g.Draw(dst, img)
	return dst
}

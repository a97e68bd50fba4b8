package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jpfielding/jpegb.go/pkg/compress/baseline"
	"github.com/jpfielding/jpegb.go/pkg/logging"
	"github.com/jpfielding/jpegb.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [input]",
		Short: "Analyze baseline JPEG structure",
		Long:  "Parses and displays the frame header, quantization and Huffman tables, and scan layout of a baseline JPEG.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("in")
			if input == "" && len(args) > 0 {
				input = args[0]
			}
			insecure, _ := cmd.Flags().GetBool("insecure")
			format, _ := cmd.Flags().GetString("format")
			verify, _ := cmd.Flags().GetBool("decode")

			ctx := logging.AppendCtx(ctx, slog.String("cmd", "analyze"), slog.String("in", input))
			in, err := openInput(ctx, input, insecure)
			if err != nil {
				return err
			}
			defer in.Close()
			h, err := baseline.Inspect(in)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			if verify {
				if _, err := baseline.DecodePlanes(h); err != nil {
					return fmt.Errorf("scan error: %w", err)
				}
				slog.InfoContext(ctx, "scan decoded cleanly")
			}
			return writeAnalysis(cmd.OutOrStdout(), Analyze(h), format)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input JPEG: path, - for stdin, or http(s) URL")
	pf.StringP("format", "f", "text", "output format (text|json)")
	pf.Bool("decode", false, "also decode the scan to verify it")
	pf.Bool("insecure", false, "skip TLS verification for URL inputs")
	return cmd
}

// Analysis is the printable summary of a parsed baseline JPEG
type Analysis struct {
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	JFIF            string          `json:"jfif,omitempty"`
	Components      []ComponentInfo `json:"components"`
	Quant           []TableInfo     `json:"quant"`
	Huffman         []TableInfo     `json:"huffman"`
	RestartInterval int             `json:"restart_interval"`
	Restarts        int             `json:"restarts"`
	ScanOffset      int             `json:"scan_offset"`
	ScanBytes       int             `json:"scan_bytes"`
	ScanMD5         string          `json:"scan_md5"`
}

type ComponentInfo struct {
	ID       byte   `json:"id"`
	Sampling string `json:"sampling"`
	Quant    int    `json:"quant"`
	DC       int    `json:"dc"`
	AC       int    `json:"ac"`
}

type TableInfo struct {
	Name  string `json:"name"`
	Codes int    `json:"codes,omitempty"`
	ID    string `json:"id"`
}

// Analyze summarises h; table IDs are content hashes so identical tables in
// different files can be matched up.
func Analyze(h *baseline.Header) *Analysis {
	a := &Analysis{
		Width:           h.Frame.Width,
		Height:          h.Frame.Height,
		RestartInterval: h.RestartInterval,
		Restarts:        h.Restarts(),
		ScanOffset:      h.ScanOffset,
		ScanBytes:       len(h.Data),
		ScanMD5:         util.Md5ThenHex(h.Data),
	}
	if h.JFIFVersion[0] != 0 {
		a.JFIF = fmt.Sprintf("%d.%02d", h.JFIFVersion[0], h.JFIFVersion[1])
	}
	for _, c := range h.Frame.Components {
		a.Components = append(a.Components, ComponentInfo{
			ID:       c.ID,
			Sampling: fmt.Sprintf("%dx%d", c.H, c.V),
			Quant:    c.Quant,
			DC:       c.DCTable,
			AC:       c.ACTable,
		})
	}
	for i, q := range h.Tables.Quant {
		if q != nil {
			a.Quant = append(a.Quant, TableInfo{Name: fmt.Sprintf("Q%d", i), ID: util.HashUUID(q.Divisors)})
		}
	}
	for class, set := range [][2]*baseline.Descriptor{h.Tables.DC, h.Tables.AC} {
		for i, d := range set {
			if d == nil {
				continue
			}
			name := fmt.Sprintf("%s%d", [2]string{"DC", "AC"}[class], i)
			a.Huffman = append(a.Huffman, TableInfo{Name: name, Codes: d.NumCodes(), ID: util.HashUUID(d)})
		}
	}
	return a
}

func writeAnalysis(w io.Writer, a *Analysis, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	fmt.Fprintln(w, "=== Frame ===")
	fmt.Fprintf(w, "Size: %dx%d\n", a.Width, a.Height)
	if a.JFIF != "" {
		fmt.Fprintf(w, "JFIF: %s\n", a.JFIF)
	}
	for _, c := range a.Components {
		fmt.Fprintf(w, "Component %d: sampling %s quant %d dc %d ac %d\n", c.ID, c.Sampling, c.Quant, c.DC, c.AC)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Tables ===")
	for _, t := range a.Quant {
		fmt.Fprintf(w, "%s: %s\n", t.Name, t.ID)
	}
	for _, t := range a.Huffman {
		fmt.Fprintf(w, "%s: %d codes %s\n", t.Name, t.Codes, t.ID)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Scan ===")
	fmt.Fprintf(w, "Offset: %d\n", a.ScanOffset)
	fmt.Fprintf(w, "Bytes: %d\n", a.ScanBytes)
	fmt.Fprintf(w, "MD5: %s\n", a.ScanMD5)
	fmt.Fprintf(w, "Restart interval: %d (%d markers)\n", a.RestartInterval, a.Restarts)
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// layoutFile is the JSON document written by the layout command.
type layoutFile struct {
	Layout      *masonry.Layout      `json:"layout"`
	Transitions []masonry.Transition `json:"transitions,omitempty"`
}

// layoutCommand creates the layout command for computing gallery layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		noCache     bool
		plan        bool
		showColumns bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [gallery.toml]",
		Short: "Compute a masonry layout for a gallery manifest",
		Long: `Compute a masonry layout for a gallery manifest.

The layout command reads a TOML or JSON gallery manifest, probes image files
for any missing heights and places every item in the shortest column. The
column count follows the viewport width unless --columns is given.

The output is a layout.json file with one placement per item. With --plan
it also contains the first-mount entry transitions.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Manifest = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache, plan, showColumns)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVar(&opts.SkipProbe, "skip-probe", false, "do not read image files for missing heights")

	// Layout flags
	cmd.Flags().Float64Var(&opts.ViewportWidth, "viewport", pipeline.DefaultViewportWidth, "viewport width used to pick the column count")
	cmd.Flags().Float64Var(&opts.ContainerWidth, "width", 0, "container width (default: viewport width)")
	cmd.Flags().IntVar(&opts.Columns, "columns", 0, "fixed column count (default: from breakpoints)")
	cmd.Flags().BoolVar(&plan, "plan", false, "include entry animation transitions")
	cmd.Flags().BoolVar(&showColumns, "show-columns", false, "print a per-column summary table")

	return cmd
}

// runLayout loads the gallery, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache, plan, showColumns bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Policy = c.config.Layout.Breakpoints

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if res.Layout == nil {
		printWarning("Container width %v is not usable, no layout computed", opts.ContainerWidth)
		return nil
	}

	doc := layoutFile{Layout: res.Layout}
	if plan {
		viewport := masonry.Size{Width: opts.ViewportWidth, Height: opts.ViewportWidth}
		doc.Transitions = masonry.Plan(res.Layout, nil, c.config.Animation, viewport, false)
	}

	if output == "-" {
		return writeLayout(os.Stdout, doc)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Manifest, filepath.Ext(opts.Manifest))
		outputPath = base + ".layout.json"
	}
	if err := writeLayoutFile(outputPath, doc); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.ItemCount, res.Layout.Columns, res.Layout.TotalHeight, res.CacheInfo.LayoutHit)
	if showColumns {
		printColumns(res.Layout)
	}
	if res.Probe != nil && len(res.Probe.Failed) > 0 {
		printWarning("%d images could not be probed", len(res.Probe.Failed))
	}
	printNewline()
	printNextStep("Preview", appName+" preview "+opts.Manifest)

	return nil
}

func writeLayoutFile(path string, doc layoutFile) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeLayout(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeLayout(w io.Writer, doc layoutFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

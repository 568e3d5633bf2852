package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	disimaging "github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/ironsheep/surf-tools-mcp/internal/features"
	"github.com/ironsheep/surf-tools-mcp/internal/imaging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "surf",
		Short:         "Scale- and rotation-invariant keypoint detection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newDetectCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "surf %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

type detectFlags struct {
	filterSizes []int
	threshold   float64
	margin      float64
	cluster     float64
	workers     int
	gray        string
	equalize    bool
	blur        float64
	region      string
	descriptors bool
	max         int
	annotate    string
	verbose     bool
}

func newDetectCmd() *cobra.Command {
	defaults := features.DefaultOptions()
	var f detectFlags

	cmd := &cobra.Command{
		Use:   "detect <image>",
		Short: "Detect keypoints and print them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.OutOrStdout(), args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.IntSliceVar(&f.filterSizes, "filter-sizes", defaults.Detector.FilterSizes, "odd box filter sizes, ascending, each >= 9")
	flags.Float64Var(&f.threshold, "threshold", defaults.Detector.ThresholdBase, "response threshold at filter size 9")
	flags.Float64Var(&f.margin, "margin", defaults.Detector.CrossScaleMargin, "cross-scale suppression margin (>= 1)")
	flags.Float64Var(&f.cluster, "cluster", defaults.Detector.ClusterRadiusFactor, "cluster radius per unit of filter size")
	flags.IntVarP(&f.workers, "workers", "j", 0, "concurrent workers (0 = one per CPU)")
	flags.StringVar(&f.gray, "gray", string(defaults.GrayMode), "gray conversion: luma or lightness")
	flags.BoolVar(&f.equalize, "equalize", false, "equalize the histogram before detection")
	flags.Float64Var(&f.blur, "blur", 0, "Gaussian pre-blur sigma in pixels")
	flags.StringVar(&f.region, "region", "", "restrict detection to x1,y1,x2,y2")
	flags.BoolVar(&f.descriptors, "descriptors", false, "include 64-element descriptors")
	flags.IntVarP(&f.max, "max", "n", 0, "keep only the N strongest keypoints (0 = all)")
	flags.StringVar(&f.annotate, "annotate", "", "also write an annotated PNG to this path")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log timing to stderr")
	return cmd
}

func (f detectFlags) options() (features.Options, error) {
	opts := features.DefaultOptions()
	opts.Detector.FilterSizes = f.filterSizes
	opts.Detector.ThresholdBase = f.threshold
	opts.Detector.CrossScaleMargin = f.margin
	opts.Detector.ClusterRadiusFactor = f.cluster
	opts.Detector.Workers = f.workers

	mode, err := imaging.ParseGrayMode(f.gray)
	if err != nil {
		return opts, err
	}
	opts.GrayMode = mode
	opts.Equalize = f.equalize
	opts.BlurSigma = f.blur
	opts.IncludeDescriptors = f.descriptors
	opts.MaxKeypoints = f.max

	if f.region != "" {
		r, err := parseRegion(f.region)
		if err != nil {
			return opts, err
		}
		opts.Region = &r
	}
	return opts, opts.Validate()
}

// parseRegion parses "x1,y1,x2,y2".
func parseRegion(s string) (imaging.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return imaging.Region{}, fmt.Errorf("region %q: want x1,y1,x2,y2", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return imaging.Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	return imaging.Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

func runDetect(out io.Writer, path string, f detectFlags) error {
	opts, err := f.options()
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(path)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := features.Extract(img, opts)
	if err != nil {
		return err
	}
	if f.verbose {
		log.Printf("%s: %d keypoints in %s", path, result.Count, time.Since(start))
	}

	if f.annotate != "" {
		if err := writeAnnotated(f.annotate, img, result); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeAnnotated(path string, img image.Image, result *features.Result) error {
	annotated := imaging.DrawMarkers(img, result.Markers(), true, "#FF0000")
	if err := disimaging.Save(annotated, path); err != nil {
		return fmt.Errorf("failed to write annotated image: %w", err)
	}
	return nil
}

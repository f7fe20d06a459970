package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Faultbox/sectionview/internal/classify"
	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/internal/logger"
	"github.com/Faultbox/sectionview/internal/viewer"
	"github.com/Faultbox/sectionview/pkg/ifc"
)

var (
	infoJSON   bool
	infoPlanes []string
)

var infoCmd = &cobra.Command{
	Use:   "info <model.json>",
	Short: "Show how a model is split into subsets",
	Long:  "Load a model, classify it and print its subsets, bounds and any requested section planes.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Print JSON")
	infoCmd.Flags().StringArrayVarP(&infoPlanes, "plane", "p", nil, `Section plane to add, e.g. "+x" or "-y=2.5"`)
	rootCmd.AddCommand(infoCmd)
}

// nullRenderer is used where the viewer state is needed without drawing.
type nullRenderer struct{}

func (nullRenderer) Render(*scene.Scene, camera.Camera, scene.ClipTable) error { return nil }
func (nullRenderer) ClearStencil()                                             {}

// loadViewer builds a viewer context around r with model path loaded and
// planes applied. Missing classification is reported as a warning only.
func loadViewer(ctx context.Context, r viewer.Renderer, cam camera.Camera, path string, planes []string) (*viewer.Context, error) {
	opts, err := cfg.ViewerOptions()
	if err != nil {
		return nil, err
	}
	specs, err := viewer.ParsePlaneSpecs(planes)
	if err != nil {
		return nil, err
	}
	m, err := ifc.Load(path)
	if err != nil {
		return nil, err
	}

	v := viewer.New(r, cam, opts, logger.Log)
	if err := v.LoadModel(ctx, m); err != nil && !errors.Is(err, classify.ErrClassificationUnavailable) {
		return nil, err
	}
	if err := v.AddPlanes(specs...); err != nil {
		return nil, err
	}
	return v, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	v, err := loadViewer(cmd.Context(), nullRenderer{}, camera.NewOrbitCamera(), args[0], infoPlanes)
	if err != nil {
		return err
	}

	s := v.Summary()
	if infoJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	printSummary(os.Stdout, s)
	return nil
}

func printSummary(w io.Writer, s viewer.Summary) {
	fmt.Fprintln(w, "Model Information")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Name: %s\n\n", s.Model)

	fmt.Fprintln(w, "Subsets:")
	for _, sub := range s.Subsets {
		outline := ""
		if sub.Outline {
			outline = " (outlined)"
		}
		fmt.Fprintf(w, "  %-20s %6d elements %8d triangles%s\n", sub.Name, sub.Members, sub.Triangles, outline)
	}

	b := s.Bounds
	fmt.Fprintln(w, "\nBounding Box:")
	fmt.Fprintf(w, "  Min: (%.3f, %.3f, %.3f)\n", b.Min.X, b.Min.Y, b.Min.Z)
	fmt.Fprintf(w, "  Max: (%.3f, %.3f, %.3f)\n", b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Fprintf(w, "  Center: (%.3f, %.3f, %.3f)\n", b.Center.X, b.Center.Y, b.Center.Z)
	fmt.Fprintf(w, "  Radius: %.3f\n", b.Radius)

	if len(s.Planes) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSection Planes:")
	for _, p := range s.Planes {
		inv := ""
		if p.Inverted {
			inv = " inverted"
		}
		fmt.Fprintf(w, "  %-8s normal (%g, %g, %g) constant %.3f%s\n",
			p.Name, p.Normal.X, p.Normal.Y, p.Normal.Z, p.Constant, inv)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/debug"
	"github.com/Faultbox/sectionview/internal/engine/raster"
	"github.com/Faultbox/sectionview/internal/logger"
	"github.com/Faultbox/sectionview/internal/section"
	"github.com/Faultbox/sectionview/internal/viewer"
)

var (
	snapOut         string
	snapPlanes      []string
	snapView        string
	snapTransparent bool
	snapBounds      bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <model.json>",
	Short: "Render a model with section planes to a PNG without a window",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVarP(&snapOut, "out", "o", "snapshot.png", "Output PNG path")
	f.StringArrayVarP(&snapPlanes, "plane", "p", nil, `Section plane to add, e.g. "+x" or "-y=2.5"`)
	f.StringVar(&snapView, "view", "", `Look along an axis ("+x", "-z") with an orthographic camera; default is a perspective overview`)
	f.BoolVar(&snapTransparent, "transparent", false, "Draw subsets transparent")
	f.BoolVar(&snapBounds, "bounds", false, "Draw the model bounds")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	r, err := raster.New(cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return err
	}
	bg := cfg.Graphics.Background.RGBA()
	r.Background.R = uint8(bg[0] * 255)
	r.Background.G = uint8(bg[1] * 255)
	r.Background.B = uint8(bg[2] * 255)

	orbit := camera.NewOrbitCamera()
	orbit.Damping = 0
	orbit.RotationY = 0.6
	orbit.RotationX = 0.45

	v, err := loadViewer(cmd.Context(), r, orbit, args[0], snapPlanes)
	if err != nil {
		return err
	}
	if snapView != "" {
		axis, sign, err := section.ParseAxisSign(snapView)
		if err != nil {
			return fmt.Errorf("--view: %w", err)
		}
		b := v.Subsets.Bounds()
		radius := max(b.Radius, 1)
		dir := axis.Unit().Scale(float32(sign))
		v.Camera = camera.NewAxisCamera(b.Center, dir, radius, radius*4)
	}
	v.Subsets.SetTransparent(snapTransparent)
	v.ShowBounds(snapBounds)

	if err := v.Tick(0); err != nil {
		return err
	}
	if err := debug.WritePNGFile(snapOut, r.Image()); err != nil {
		return err
	}

	logger.Info("snapshot written",
		zap.String("path", snapOut),
		zap.Int("planes", v.Planes.Len()),
		zap.Int("draws", r.Stats().Draws))
	return nil
}

var _ viewer.Renderer = (*raster.Rasterizer)(nil)

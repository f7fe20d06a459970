package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/app"
	"github.com/Faultbox/sectionview/internal/logger"
	"github.com/Faultbox/sectionview/internal/watch"
)

var (
	viewWatch  bool
	viewPlanes []string
)

var viewCmd = &cobra.Command{
	Use:   "view <model.json>",
	Short: "Open a model in the interactive viewer",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func init() {
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "Reload the model when the file changes")
	viewCmd.Flags().StringArrayVarP(&viewPlanes, "plane", "p", nil, `Section plane to start with, e.g. "+x" or "-y=2.5"`)
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, logger.Log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Load(ctx, args[0]); err != nil {
		return err
	}
	if err := a.AddPlanes(viewPlanes); err != nil {
		return err
	}

	if viewWatch {
		w, err := watch.New(0, logger.Named("watch"))
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Add(args[0]); err != nil {
			return err
		}
		a.Watch(w.Changes())
	}

	if err := a.Run(ctx); err != nil {
		return err
	}
	logger.Info("viewer closed normally", zap.Uint64("frames", a.Viewer().Frames()))
	return nil
}

package cmd

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ftl/iqscope/core"
	coreapp "github.com/ftl/iqscope/core/app"
	"github.com/ftl/iqscope/core/snapshot"
)

var renderFlags = struct {
	output   string
	width    int
	height   int
	duration time.Duration
}{}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "render the scope into a PNG file without GUI",
	RunE:  runWithCtx(runRender),
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderFlags.output, "output", "iqscope.png", "the PNG file")
	renderCmd.Flags().IntVar(&renderFlags.width, "width", 1000, "the width of the image in pixels")
	renderCmd.Flags().IntVar(&renderFlags.height, "height", 400, "the height of the image in pixels")
	renderCmd.Flags().DurationVar(&renderFlags.duration, "duration", time.Second, "how long to acquire samples before rendering")
}

func runRender(ctx context.Context, config core.Configuration, cmd *cobra.Command, args []string) error {
	controller := coreapp.New(config)
	controller.SetInitialSize(core.Px(renderFlags.width), core.Px(renderFlags.height))
	if err := controller.Startup(); err != nil {
		return err
	}

	select {
	case <-time.After(renderFlags.duration):
	case <-ctx.Done():
	}
	frame := controller.LastFrame()
	controller.Shutdown()

	if frame.Empty() {
		log.Print("[WARN] no trace captured, the image shows only the scope")
	}

	f, err := os.Create(renderFlags.output)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", renderFlags.output)
	}
	defer f.Close()

	err = snapshot.Write(f, frame, renderFlags.width, renderFlags.height)
	if err != nil {
		return err
	}
	log.Printf("[INFO] frame written to %s", renderFlags.output)
	return nil
}

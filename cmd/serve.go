package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ftl/iqscope/core"
	coreapp "github.com/ftl/iqscope/core/app"
	"github.com/ftl/iqscope/core/server"
)

var serveFlags = struct {
	listen string
	width  int
	height int
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the frames and the scope configuration over HTTP",
	RunE:  runWithCtx(runServe),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", ":8080", "the listen address")
	serveCmd.Flags().IntVar(&serveFlags.width, "width", 1000, "the width of the drawing area in pixels")
	serveCmd.Flags().IntVar(&serveFlags.height, "height", 400, "the height of the drawing area in pixels")
}

func runServe(ctx context.Context, config core.Configuration, cmd *cobra.Command, args []string) error {
	controller := coreapp.New(config)
	controller.SetInitialSize(core.Px(serveFlags.width), core.Px(serveFlags.height))
	if err := controller.Startup(); err != nil {
		return err
	}
	defer controller.Shutdown()

	return server.New(serveFlags.listen, controller).Run(ctx)
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/they4kman/gosweep/v2/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over HTTP",
	Long: `Serve games over a JSON API. Board flags set the defaults for games
created without explicit dimensions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		defaults := gameConfig
		defaults.Snapshot = nil

		srv := server.New(server.Config{Defaults: defaults, Logger: log})
		return srv.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}

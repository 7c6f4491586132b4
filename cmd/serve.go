package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/tablepos/internal/server"
	"github.com/chrisdamba/tablepos/internal/terminal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the terminal commands as a JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		session, err := terminal.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer session.Close()

		app := server.New(session)
		errCh := make(chan error, 1)
		go func() {
			log.Printf("Listening on :%s", cfg.HTTPPort)
			errCh <- app.Listen(":" + cfg.HTTPPort)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Printf("Received %s, shutting down", sig)
		}
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Printf("Shutdown: %v", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "HTTP port")
	cobra.CheckErr(viper.BindPFlag("http_port", serveCmd.Flags().Lookup("port")))
	rootCmd.AddCommand(serveCmd)
}

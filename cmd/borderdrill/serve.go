package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/borderdrill/borderdrill/pkg/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interview HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Listen
			if listen != "" {
				addr = listen
			}
			srv := server.New(addr, a.service)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Printf("starting borderdrill with config %q, %d personas, cache=%v", configPath, a.service.Personas().Len(), a.cfg.Cache.Enabled)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&listen, "listen", "", "override listen address")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/corvino/roomcast/internal/hub"
	"github.com/corvino/roomcast/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port    int
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the roomcast server",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := hub.New(nil)
			addr := fmt.Sprintf(":%d", port)
			srv := server.New(h, server.Config{
				Addr:           addr,
				AllowedOrigins: origins,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Printf("roomcast listening on %s", addr)
				log.Printf("open http://localhost:%d in your browser", port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return fmt.Errorf("listen: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				log.Println("shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				return nil
			})

			if err := g.Wait(); err != nil {
				return err
			}
			log.Println("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port")
	cmd.Flags().StringArrayVar(&origins, "allowed-origin", nil, "allowed WebSocket origin (repeatable; default allows all)")

	return cmd
}

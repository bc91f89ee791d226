package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/tagside/internal/tui"
	"github.com/lu-zhengda/tagside/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sidebar over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			renderer, err := sess.renderer()
			if err != nil {
				return err
			}
			srv, err := web.NewServer(sess.tags, sess.messages, renderer, sess.cfg.UI.Language)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = sess.cfg.Web.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Printf("[web] listening on %s for account %s", addr, sess.tags.AccountID())
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("failed to serve: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Printf("[web] shutting down")
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to [web] addr)")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the sidebar fragment as HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			renderer, err := sess.renderer()
			if err != nil {
				return err
			}
			priority, regular, cfg, err := sess.tags.Sidebar(cmd.Context(), query)
			if err != nil {
				return err
			}
			out, err := renderer.Render(priority, regular, cfg)
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(map[string]string{"html": string(out)})
			}
			return fprintFragment(os.Stdout, out)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search query; tags it names are highlighted")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Browse and organize the sidebar in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context())
		},
	}
}

func runPreview(ctx context.Context) error {
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	renderer, err := sess.renderer()
	if err != nil {
		return err
	}
	return tui.Run(ctx, sess.tags, renderer, sess.translator())
}

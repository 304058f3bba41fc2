// jobs-browser is a terminal client for the directory service. It mounts the
// listing controller on the seed for --url and lets you filter, search and
// page through jobs from stdin, with back/forward history.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"jobmate/directory-service/internal/browser"
	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		server    string
		grpcAddr  string
		transport string
		location  string
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:          "jobs-browser",
		Short:        "Browse the job directory from a terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New(logLevel, "console").With("service", "jobs-browser")
			defer log.Sync() //nolint:errcheck

			remote, closeRemote, err := dial(transport, server, grpcAddr)
			if err != nil {
				return err
			}
			defer closeRemote()

			s := browser.Open(ctx, remote, location, cmd.OutOrStdout(), log)
			return s.Run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8083", "directory service HTTP base URL")
	cmd.Flags().StringVar(&grpcAddr, "grpc", "localhost:9083", "directory service gRPC address")
	cmd.Flags().StringVar(&transport, "transport", "http", "transport to use: http or grpc")
	cmd.Flags().StringVar(&location, "url", listing.JobsPath, "initial location, e.g. /jobs?department=Engineering")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level")
	return cmd
}

func dial(transport, server, grpcAddr string) (browser.Remote, func(), error) {
	switch transport {
	case "http":
		return browser.NewHTTPRemote(server), func() {}, nil
	case "grpc":
		conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("grpc dial %s: %w", grpcAddr, err)
		}
		return browser.NewGRPCRemote(conn), func() { _ = conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("invalid --transport %q: want http or grpc", transport)
	}
}

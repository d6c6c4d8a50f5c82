package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/nickyhof/MyDB"
	"github.com/nickyhof/MyDB/config"
	"github.com/nickyhof/MyDB/core"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("mydb-server", pflag.ContinueOnError)
	cfgFile := flags.String("config", "", "Config file (default: mydb.yaml in the working directory)")
	showVersion := flags.Bool("version", false, "Show version and exit")
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Printf("MyDB SQL Server v%s\n", Version)
		return nil
	}

	cfg, err := config.Load(*cfgFile, flags)
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	instance := MyDB.Open(
		MyDB.WithLogger(logger),
		MyDB.WithStatementCache(cfg.Cache.Statements),
	)

	identity := core.Identity{
		Name:  "MyDB Server",
		Email: "server@mydb.local",
	}

	server := NewServer(instance, identity, WithAuth(&cfg.Auth), WithLogger(logger))

	if cfg.Server.TLSCert != "" {
		err = server.StartTLS(cfg.Server.Addr, cfg.Server.TLSCert, cfg.Server.TLSKey)
	} else {
		err = server.Start(cfg.Server.Addr)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   MyDB SQL Server v%-18s ║\n", Version)
	fmt.Println("║   In-memory SQL catalog               ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on %s\n", server.Addr())
	if cfg.Server.HTTPAddr != "" {
		fmt.Printf("HTTP API on %s\n", cfg.Server.HTTPAddr)
	}
	fmt.Println("Send SQL statements (one per line), 'quit' to disconnect")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, egctx := errgroup.WithContext(ctx)

	if cfg.Server.HTTPAddr != "" {
		srv := &http.Server{
			Addr:    cfg.Server.HTTPAddr,
			Handler: server.HTTPHandler(),
			BaseContext: func(_ net.Listener) context.Context {
				return egctx
			},
			ReadHeaderTimeout: 10 * time.Second,
		}

		eg.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server error: %w", err)
			}
			return nil
		})

		eg.Go(func() error {
			<-egctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	eg.Go(func() error {
		<-egctx.Done()
		logger.Info("shutting down")
		return server.Stop()
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

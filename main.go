package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/galacticon/battle"
	"github.com/nstehr/galacticon/config"
	"github.com/nstehr/galacticon/ipc"
	"github.com/nstehr/galacticon/session"
)

const banner = `
  ____       _            _   _
 / ___| __ _| | __ _  ___| |_(_) ___ ___  _ __
| |  _ / _` + "`" + ` | |/ _` + "`" + ` |/ __| __| |/ __/ _ \| '_ \
| |_| | (_| | | (_| | (__| |_| | (_| (_) | | | |
 \____|\__,_|_|\__,_|\___|\__|_|\___\___/|_| |_|

Turn-Based Fleet Combat`

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	socketPath := flag.String("socket", "", "unix socket to listen on (overrides config)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting galacticon")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *socketPath != "" {
		cfg.Socket = *socketPath
	}

	doctrine, err := battle.NewDoctrine(cfg.Doctrine)
	if err != nil {
		slog.Error("failed to compile doctrine", "error", err)
		os.Exit(1)
	}
	slog.Info("doctrine loaded", "rules", len(doctrine.Rules()), "races", len(cfg.Races), "opponents", len(cfg.Opponents))

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.Socket); err != nil {
		slog.Error("failed to clean up socket", "path", cfg.Socket, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		slog.Error("failed to listen on socket", "path", cfg.Socket, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(cfg.Socket)

	slog.Info("listening on domain socket", "path", cfg.Socket)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(ctx, conn, &cfg, doctrine)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

func handleConn(ctx context.Context, conn net.Conn, cfg *config.Config, doctrine *battle.Doctrine) {
	c := ipc.NewConnection(conn, nil,
		ipc.WithRateLimit(cfg.Rate.PerSecond, cfg.Rate.Burst),
		ipc.WithCompression(cfg.CompressThreshold),
	)
	s := session.New(ctx, c, cfg, doctrine)
	s.Register()
	c.ReadLoop()
}

package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teatak/tagseg/config"
	"github.com/teatak/tagseg/server"
)

func main() {
	if err := newServeCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve segmentation over HTTP",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServer,
	}
	cmd.Flags().String("config", "", "Path to the YAML config (default $TAGSEG_CONFIG)")
	cmd.Flags().String("addr", "", "Listen address (default from config or $TAGSEG_HOST)")
	cmd.Flags().StringArray("dict", nil, "User dictionary file, one word per line (repeatable)")
	return cmd
}

func runServer(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel()})))

	path, _ := cmd.Flags().GetString("config")
	addr, _ := cmd.Flags().GetString("addr")
	dicts, _ := cmd.Flags().GetStringArray("dict")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	slog.Info("server config", "vocab", cfg.Vocab, "models", cfg.Models, "limits", cfg.Limits, "factor", cfg.InterferenceFactor)

	s, err := server.FromConfig(cfg, dicts)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

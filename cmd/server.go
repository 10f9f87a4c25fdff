package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jayteemoney/ticket/internal/config"
	"github.com/jayteemoney/ticket/internal/janitor"
	"github.com/jayteemoney/ticket/internal/logging"
	"github.com/jayteemoney/ticket/internal/store"
	"github.com/jayteemoney/ticket/internal/web"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the ticket wizard web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logs := logging.Setup(logging.Options{
				File:       cfg.LogFile,
				MaxSizeMB:  cfg.LogMaxSizeMB,
				MaxBackups: cfg.LogMaxBackups,
				MaxAgeDays: cfg.LogMaxAgeDays,
			})
			defer logs.Close()
			for _, w := range cfg.Warnings() {
				log.Printf("config: %s", w)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			b, err := openBackend(ctx, cfg, migrateUp)
			if err != nil {
				return err
			}
			defer b.Close()

			if b.Pruner != nil {
				j := &janitor.Janitor{Store: b.Pruner, TTL: cfg.DraftTTL, Interval: cfg.JanitorInterval}
				go func() { _ = j.Run(ctx) }()
			}

			up, err := newUploader(ctx, cfg)
			if err != nil {
				return err
			}

			ws := &web.Server{
				Drafts:         b.persister(cfg),
				Uploader:       up,
				Photos:         store.NewPhotoSeal(cfg.CookieHashKey, cfg.CookieBlockKey),
				MaxUploadBytes: cfg.UploadMaxBytes,
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup (postgres draft store)")

	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}

package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("findpair exited")
	}
}

// rootCmd wires the findpair command tree. Running it bare starts the server.
func rootCmd() *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:           "findpair",
		Short:         "Memory-matching pairs game",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			*cfg = c
			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*cfg)
		},
	}
	cmd.AddCommand(serveCmd(cfg), playCmd(cfg))
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/aretw0/ragso/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v   = viper.New()
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ragso",
	Short: "Ragso is a library assistant for seat reservations and book holds",
	Long: `Ragso answers library patrons in a chat: it reserves reading-room seats,
looks up books through a three-tier catalog browse and places Book Siren Order holds.
Every reservation or hold is committed only after an explicit confirmation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(v, file)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./ragso.yaml or $HOME/.ragso/ragso.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("catalog", "", "Catalog tables file (YAML or JSON); empty uses the built-in sample library")
	flags.String("store", config.DriverMemory, "Session store: memory or redis")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis store")

	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyCatalogPath, flags.Lookup("catalog"))
	_ = v.BindPFlag(config.KeyStoreDriver, flags.Lookup("store"))
	_ = v.BindPFlag(config.KeyRedisAddr, flags.Lookup("redis-addr"))
}

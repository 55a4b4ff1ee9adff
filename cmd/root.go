package cmd

import (
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	envFile string
	v       = config.New(viper.New())
)

var rootCmd = &cobra.Command{
	Use:   "sip-n-sync",
	Short: "Sip'n'Sync events service",
	Long: `Sip'n'Sync serves the community events catalog and forwards registrations,
payment proofs and contact messages to the spreadsheet and drive webhooks.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		if err := config.LoadDotEnv(files...); err != nil {
			return err
		}

		level, err := logrus.ParseLevel(v.GetString(config.EnvLogLevel))
		if err != nil {
			level = logrus.InfoLevel
		}
		log.Init(level)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"dotenv file to load (default: .env when present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = v.BindPFlag(config.EnvLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}

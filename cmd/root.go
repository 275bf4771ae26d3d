package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	mirrorDSN string
	sourceDSN string
	verbose   bool

	// Log is the process logger, shared by every command.
	Log = logrus.New()
)

var RootCmd = &cobra.Command{
	Use:   "quizmirror",
	Short: "Mirror schema and row synchronization for the quiz backend",
	Long: `quizmirror keeps the external document/table mirror consistent with the
quiz backend's relational source of record: it provisions mirror tables from
the entity descriptors, audits identifier drift and repairs it row by row.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			Log.SetLevel(logrus.DebugLevel)
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./quizmirror.yaml)")
	RootCmd.PersistentFlags().StringVar(&mirrorDSN, "mirror-dsn", "", "mirror store DSN (postgres)")
	RootCmd.PersistentFlags().StringVar(&sourceDSN, "source-dsn", "", "source-of-record DSN (mysql)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viper.BindPFlag("mirror.dsn", RootCmd.PersistentFlags().Lookup("mirror-dsn"))
	viper.BindPFlag("source.dsn", RootCmd.PersistentFlags().Lookup("source-dsn"))

	Log.SetOutput(os.Stderr)
	Log.SetLevel(logrus.InfoLevel)
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	// .env files carry credentials in development, same as the backend.
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("quizmirror")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

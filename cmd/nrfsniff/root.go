package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ystepanoff/nrfsniff/host/config"
	hostlog "github.com/ystepanoff/nrfsniff/host/log"
)

var (
	// Global flags
	configFile string

	v      = viper.New()
	cfg    *config.Config
	logger *logrus.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nrfsniff",
	Short: "Timestamping sniffer for Enhanced ShockBurst links",
	Long: `nrfsniff captures packets from a listening nRF radio together with
microsecond timestamps latched in hardware at address match.

The capture command reads the event stream from a sniffer dongle over its
UART; simulate drives the same sniffer core against simulated peripherals.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(configCmd)
}

// flagKeys maps command-line flags onto config keys. Flags are bound for the
// command being run only, since several commands share a key.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"port":      "serial.port",
	"baud":      "serial.baud_rate",
	"pcap":      "capture.pcap",
}

func loadConfig(cmd *cobra.Command, args []string) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	var err error
	cfg, err = config.Load(v, configFile)
	if err != nil {
		return err
	}
	logger, err = hostlog.New(cfg.Log)
	if err != nil {
		return err
	}
	return nil
}

// pcapPath resolves the configured pcap output: empty disables it and
// "auto" names the file after the session.
func pcapPath(configured string, session uuid.UUID) string {
	if configured == "auto" {
		return fmt.Sprintf("nrfsniff-%s.pcap", session)
	}
	return configured
}

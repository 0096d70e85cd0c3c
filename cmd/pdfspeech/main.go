// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfspeech CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfspeech/internal/logging"
	"github.com/pdiddy/pdfspeech/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pdfspeech CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfspeech",
	Short: "Convert PDF documents into spoken MP3 audio",
	Long: `pdfspeech reads a PDF document, extracts its text and turns it into a
spoken MP3 file. Synthesis runs either through a cloud TTS endpoint or
fully offline through a local eSpeak engine and MP3 encoder.

The convert subcommand runs a full conversion; voices lists what the
selected engine can speak.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfspeech.yaml or ~/.config/pdfspeech/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug detail and echo log entries to stderr")
	rootCmd.PersistentFlags().String("logfile", logging.DefaultFile, "path of the conversion log")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logfile", rootCmd.PersistentFlags().Lookup("logfile"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfspeech")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfspeech"))
		}
	}

	viper.SetEnvPrefix("PDFSPEECH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCode maps err to the process exit status. Flag parsing and usage
// errors from cobra carry no kind and count as invalid arguments.
func exitCode(err error) int {
	if types.KindOf(err) == "" {
		return 3
	}
	return types.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

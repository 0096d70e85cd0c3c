package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfspeech/internal/logging"
	"github.com/pdiddy/pdfspeech/internal/pipeline"
	"github.com/pdiddy/pdfspeech/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.pdf> <output.mp3>",
	Short: "Convert a PDF document into a spoken MP3 file",
	Long: `Convert extracts the text of a PDF, splits it into segments the
synthesis engine accepts, speaks each segment and joins the audio into
one MP3 file. The output appears only when the whole conversion
succeeds.

The cloud engine needs network access; the offline engine needs eSpeak
NG (or eSpeak) on PATH plus ffmpeg or lame for MP3 encoding.`,
	Args: convertArgs,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("engine", "cloud", "synthesis engine: cloud or offline")
	convertCmd.Flags().String("lang", "auto", "language code for synthesis (detected from the text by default)")
	convertCmd.Flags().String("voice", "", "voice for the offline engine (e.g. en-us, de+f3)")
	convertCmd.Flags().Int("rate", 0, "speaking rate in words per minute for the offline engine")
	convertCmd.Flags().String("tts-command", "", "custom synthesis command reading text on stdin and writing WAV to stdout")
	convertCmd.Flags().Bool("metadata", false, "write a YAML metadata sidecar next to the output file")

	_ = viper.BindPFlag("engine", convertCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("lang", convertCmd.Flags().Lookup("lang"))
	_ = viper.BindPFlag("voice", convertCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("rate", convertCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("tts_command", convertCmd.Flags().Lookup("tts-command"))
	_ = viper.BindPFlag("metadata", convertCmd.Flags().Lookup("metadata"))

	rootCmd.AddCommand(convertCmd)
}

func convertArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return types.NewStageError(types.InvalidArguments, "convert",
			fmt.Errorf("expected <input.pdf> and <output.mp3>, got %d arguments", len(args)))
	}
	if !strings.EqualFold(filepath.Ext(args[1]), ".mp3") {
		return types.NewStageError(types.InvalidArguments, "convert",
			fmt.Errorf("output file %s must have an .mp3 extension", args[1]))
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	engine, err := types.ParseEngine(viper.GetString("engine"))
	if err != nil {
		return types.NewStageError(types.InvalidArguments, "convert", err)
	}
	rate := viper.GetInt("rate")
	if rate < 0 {
		return types.NewStageError(types.InvalidArguments, "convert",
			fmt.Errorf("rate must be positive, got %d", rate))
	}

	logger, closer := logging.New(viper.GetString("logfile"), viper.GetBool("verbose"), os.Stderr)
	defer closer.Close()

	cfg := types.ConvertConfig{
		Synth: types.SynthConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("http.timeout"),
				UserAgent: viper.GetString("http.user_agent"),
			},
			Engine:   engine,
			Language: viper.GetString("lang"),
			Voice:    viper.GetString("voice"),
			Rate:     rate,
			Command:  viper.GetString("tts_command"),
		},
		Log: types.LogConfig{
			File:    viper.GetString("logfile"),
			Verbose: viper.GetBool("verbose"),
		},
		WriteMetadata: viper.GetBool("metadata"),
	}

	logger.Info("starting conversion", "input", inPath, "output", outPath, "engine", string(engine))

	p := pipeline.New(cfg, logger, cmd.OutOrStdout())
	res, err := p.Run(cmd.Context(), inPath, outPath)
	if err != nil {
		logger.Error("conversion failed", "error", err.Error())
		return err
	}

	if cfg.WriteMetadata {
		// The MP3 is already in place; a sidecar failure is not worth
		// failing the run over.
		if err := pipeline.Sidecar(res); err != nil {
			logger.Warn("metadata sidecar not written", "error", err.Error())
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	return nil
}

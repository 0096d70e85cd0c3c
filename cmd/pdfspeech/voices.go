package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfspeech/internal/synth"
	"github.com/pdiddy/pdfspeech/pkg/types"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices the selected synthesis engine offers",
	Long: `Voices lists what the selected engine can speak. For the cloud engine
this is the set of accepted language codes; for the offline engine it is
the voice table reported by the installed eSpeak.`,
	RunE: runVoices,
}

func init() {
	voicesCmd.Flags().String("engine", "cloud", "synthesis engine: cloud or offline")

	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("engine")
	engine, err := types.ParseEngine(name)
	if err != nil {
		return types.NewStageError(types.InvalidArguments, "voices", err)
	}

	if engine == types.EngineCloud {
		for _, lang := range synth.Languages() {
			fmt.Fprintln(cmd.OutOrStdout(), lang)
		}
		return nil
	}

	e, err := synth.NewESpeak(types.SynthConfig{})
	if err != nil {
		return err
	}
	voices, err := e.Voices(cmd.Context())
	if err != nil {
		return err
	}
	for _, v := range voices {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", v.Language, v.Name)
	}
	return nil
}

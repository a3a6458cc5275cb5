package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coby5502/dango/internal/dictionary"
)

func newDictionaryCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use: "dictionary",
	}

	rootCommand.AddCommand(&cobra.Command{
		Use:  "lookup",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			cascade := newCascade(cfg)
			result, err := cascade.Resolve(cmd.Context(), term)
			if err != nil {
				return fmt.Errorf("cascade.Resolve > %w", err)
			}
			showResult(term, result)
			return nil
		},
	})
	return &rootCommand
}

func showResult(term string, result *dictionary.Result) {
	if result == nil {
		fmt.Printf("no result for %q\n", term)
		return
	}

	header := color.New(color.FgCyan, color.Bold)
	if result.Reading != "" {
		header.Printf("%s /%s/\n", term, result.Reading)
	} else {
		header.Println(term)
	}

	for i, meaning := range result.Meanings {
		fmt.Printf("%d: %s\n", i+1, meaning)
	}
	for _, example := range result.Examples {
		fmt.Printf("   %s\n   %s\n", example.Source, example.Target)
	}

	if result.Confidence < 0.5 {
		color.Yellow("offline result (confidence %.1f)", result.Confidence)
	}
}

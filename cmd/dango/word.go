package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/coby5502/dango/internal/words"
)

type Source string

func (s *Source) Set(val string) error {
	for _, source := range allSources {
		if val == string(source) {
			*s = source
			return nil
		}
	}
	return fmt.Errorf("invalid source: %s", val)
}

func (s Source) String() string {
	return string(s)
}

func (s *Source) Type() string {
	return "Source"
}

const (
	SourceManual     Source = "manual"
	SourceDictionary Source = "dictionary"
)

var (
	_          pflag.Value = (*Source)(nil)
	allSources             = []Source{SourceManual, SourceDictionary}
)

func newWordCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use: "word",
	}

	var autofill bool
	source := SourceManual
	addCommand := &cobra.Command{
		Use:  "add",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			meaning := ""
			if len(args) == 2 {
				meaning = args[1]
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			st, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = st.Close()
			}()

			word := &words.Word{Text: text, Meaning: meaning, SourceType: string(source)}
			if autofill {
				cascade := newCascade(cfg)
				result, err := cascade.Resolve(ctx, text)
				if err != nil {
					return fmt.Errorf("cascade.Resolve > %w", err)
				}
				if result != nil {
					word.Reading = result.Reading
					if word.Meaning == "" && len(result.Meanings) > 0 {
						word.Meaning = result.Meanings[0]
					}
					word.SourceType = string(SourceDictionary)
				}
			}

			repo := words.NewDBRepository(st.DB())
			if err := repo.Save(ctx, word); err != nil {
				return fmt.Errorf("repo.Save > %w", err)
			}
			fmt.Printf("saved %q (id %d, store %s)\n", word.Text, word.ID, st.Kind())
			return nil
		},
	}
	addCommand.Flags().BoolVar(&autofill, "autofill", false, "Fill reading and meaning from the dictionary")
	addCommand.Flags().Var(&source, "source", fmt.Sprintf("Where the word came from. Possible values are %v", allSources))

	listCommand := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			st, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = st.Close()
			}()

			repo := words.NewDBRepository(st.DB())
			found, err := repo.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("repo.FindAll > %w", err)
			}

			for _, word := range found {
				text := word.Text
				if word.Reading != "" {
					text = fmt.Sprintf("%s /%s/", word.Text, word.Reading)
				}
				if word.IsFavorite {
					color.New(color.FgYellow).Printf("* %s\t%s\n", text, word.Meaning)
					continue
				}
				fmt.Printf("  %s\t%s\n", text, word.Meaning)
			}
			return nil
		},
	}

	rootCommand.AddCommand(addCommand, listCommand)
	return &rootCommand
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use: "sync",
	}

	rootCommand.AddCommand(&cobra.Command{
		Use:  "status",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			st, monitor, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = st.Close()
			}()

			fmt.Printf("active store: %s\n", st.Kind())
			fmt.Printf("sync status: %s\n", monitor.Status())
			return nil
		},
	})
	return &rootCommand
}

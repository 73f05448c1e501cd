package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sitterbot/internal/sitters"
)

func newSitterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitter",
		Short: "Manage the sitter roster (non-SMS)",
	}
	cmd.AddCommand(newSitterListCmd())
	cmd.AddCommand(newSitterAddCmd())
	cmd.AddCommand(newSitterRemoveCmd())
	return cmd
}

func newSitterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered sitters in approach order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			registry, cleanup, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			roster, err := registry.All(ctx)
			if err != nil {
				return err
			}
			if len(roster) == 0 {
				fmt.Println("no sitters registered")
				return nil
			}
			for i, s := range roster {
				fmt.Fprintf(os.Stdout, "%d. %s %s\n", i+1, s.Title(), s.Number)
			}
			return nil
		},
	}
}

func newSitterAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <name> <10-digit number>",
		Short: "Register a sitter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			number, err := sitters.NormalizeNumber(args[1], cfg.CountryCode)
			if err != nil {
				return err
			}

			registry, cleanup, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := registry.Add(ctx, args[0], number)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "added %s %s\n", s.Title(), s.Number)
			return nil
		},
	}
	return c
}

func newSitterRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a sitter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			registry, cleanup, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := registry.Remove(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "removed %s\n", s.Title())
			return nil
		},
	}
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBookingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking",
		Short: "Inspect booking requests (non-SMS)",
	}
	cmd.AddCommand(newBookingListCmd())
	return cmd
}

func newBookingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookings and their offer history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, cleanup, err := openBookings(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			bs, err := store.All(ctx)
			if err != nil {
				return err
			}
			if len(bs) == 0 {
				fmt.Println("no bookings")
				return nil
			}
			for _, b := range bs {
				status := "open"
				if a, ok := b.Accepted(); ok {
					status = "accepted by " + a.Sitter
				}
				fmt.Fprintf(os.Stdout, "%s [%s]\n", b.Window, status)
				for _, o := range b.Offers {
					fmt.Fprintf(os.Stdout, "  %s: %s (offered %s)\n",
						o.Sitter, o.Status, o.OfferedAt.Format("1/2 3:04PM"))
				}
			}
			return nil
		},
	}
}

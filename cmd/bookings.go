package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"absolute-cinema-cli/booking"
)

func newSeatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seats <showtimeId>",
		Short: "Show the seat map of a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seats, err := a.client.GetSeats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderSeatGrid(cmd.OutOrStdout(), booking.BuildGrid(seats))
			return nil
		},
	}
}

func newBookCmd(a *app) *cobra.Command {
	var showtimeID string
	cmd := &cobra.Command{
		Use:   "book <seatId>...",
		Short: "Book seats by id",
		Long: `Book one or more seats. Ids are sent in the order given.
With --showtime the seat map is re-read first and the booking is refused
if any seat was taken in the meantime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.MaxSeats > 0 && len(args) > a.cfg.MaxSeats {
				return fmt.Errorf("%w: at most %d seats", booking.ErrSelectionLimit, a.cfg.MaxSeats)
			}
			opts := []booking.SubmitterOption{booking.WithSubmitLogger(a.log)}
			if showtimeID != "" {
				opts = append(opts, booking.WithRevalidation(a.client, showtimeID))
			}
			out := cmd.OutOrStdout()
			nav := booking.NavigatorFunc(func(id string) {
				fmt.Fprintf(out, "Booking %s created. Pay with: %s pay %s\n", id, appName, id)
			})
			created, err := booking.NewSubmitter(a.client, nav, opts...).Submit(cmd.Context(), args)
			if err != nil {
				return err
			}
			renderBookingDetail(out, created)
			return nil
		},
	}
	cmd.Flags().StringVar(&showtimeID, "showtime", "", "showtime id used to re-check seat availability")
	return cmd
}

func newBookingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "booking <bookingId>",
		Short: "Show booking details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.client.GetBooking(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderBookingDetail(cmd.OutOrStdout(), b)
			return nil
		},
	}
}

func newBookingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List your bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := a.client.GetBookingHistory(cmd.Context())
			if err != nil {
				return err
			}
			if len(bookings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings yet.")
				return nil
			}
			renderBookings(cmd.OutOrStdout(), bookings)
			return nil
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel <bookingId>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Cancel booking %s", args[0]),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					return fmt.Errorf("cancel aborted")
				}
			}
			if err := a.client.CancelBooking(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %s cancelled.\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newTicketCmd(a *app) *cobra.Command {
	return newDocumentCmd(a, "ticket", "Download the e-ticket PDF", "e-ticket")
}

func newReceiptCmd(a *app) *cobra.Command {
	return newDocumentCmd(a, "receipt", "Download the receipt PDF", "receipt")
}

// newDocumentCmd downloads a booking PDF. The client is resolved at run
// time because it only exists after the root pre-run.
func newDocumentCmd(a *app, use, short, kind string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   use + " <bookingId>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := output
			if path == "" {
				path = fmt.Sprintf("%s-%s.pdf", kind, args[0])
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			download := a.client.DownloadReceipt
			if kind == "e-ticket" {
				download = a.client.DownloadTicket
			}
			if err := download(cmd.Context(), args[0], f); err != nil {
				_ = f.Close()
				_ = os.Remove(path)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", strings.ReplaceAll(kind, "-", " "), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file")
	return cmd
}

// Package roomscmd implements the `frontdesk rooms` command group.
package roomscmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/output"
)

// Command implements `frontdesk rooms`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the rooms command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "rooms",
		Short: "List and manage rooms",
	}
	c.cmd.AddCommand(
		newList(ctx),
		newAdd(ctx),
		newRemove(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// ---------------------------------------------------------------------------
// rooms list
// ---------------------------------------------------------------------------

func newList(ctx *shared.Context) *cobra.Command {
	var (
		status    string
		available bool
		forGuest  int64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			var rooms []models.Room
			if available {
				rooms, err = sess.AvailableRooms(forGuest)
			} else {
				rooms, err = sess.ListRooms(models.RoomStatus(status))
			}
			if err != nil {
				return err
			}
			return sess.Printer.Print(cmd.OutOrStdout(), rooms, output.RoomsTable(rooms, sess.Printer.Money))
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Filter by status: available, occupied")
	f.BoolVar(&available, "available", false, "Only rooms a guest can be placed in")
	f.Int64Var(&forGuest, "for", 0, "With --available, also include this customer's room")
	return cmd
}

// ---------------------------------------------------------------------------
// rooms add
// ---------------------------------------------------------------------------

func newAdd(ctx *shared.Context) *cobra.Command {
	var in models.RoomInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an available room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			room, err := sess.AddRoom(in)
			if err != nil {
				return err
			}
			return sess.Printer.Print(cmd.OutOrStdout(), room, output.RoomsTable([]models.Room{*room}, sess.Printer.Money))
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Number, "number", "", "Room number (required, unique)")
	f.StringVar(&in.Type, "type", "", "Room type: single, double or another label (default single)")
	f.IntVar(&in.Beds, "beds", 0, "Beds, 1 to 4 (default from type)")
	f.Int64Var(&in.Price, "price", 0, "Nightly price (default from type)")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}

// ---------------------------------------------------------------------------
// rooms remove
// ---------------------------------------------------------------------------

func newRemove(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a room that is not occupied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := shared.ParseID(args[0])
			if err != nil {
				return err
			}
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.RemoveRoom(id); err != nil {
				return err
			}
			return sess.Printer.Message(cmd.OutOrStdout(), "Removed room %d", id)
		},
	}
}

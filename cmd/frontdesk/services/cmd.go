// Package servicescmd implements the `frontdesk services` command group.
package servicescmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/output"
)

// Command implements `frontdesk services`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the services command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "services",
		Short: "List and manage the additional services catalog",
	}
	c.cmd.AddCommand(
		newList(ctx),
		newAdd(ctx),
		newUpdate(ctx),
		newRemove(ctx),
		newBook(ctx),
		newBookings(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func printServices(cmd *cobra.Command, sess *shared.Session, services []models.Service, data any) error {
	return sess.Printer.Print(cmd.OutOrStdout(), data, output.ServicesTable(services, sess.Printer.Money))
}

// ---------------------------------------------------------------------------
// services list
// ---------------------------------------------------------------------------

func newList(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog services",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			services, err := sess.ListServices()
			if err != nil {
				return err
			}
			return printServices(cmd, sess, services, services)
		},
	}
}

// ---------------------------------------------------------------------------
// services add
// ---------------------------------------------------------------------------

func newAdd(ctx *shared.Context) *cobra.Command {
	var (
		in  models.ServiceInput
		typ string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			in.Type = models.ServiceType(typ)
			svc, err := sess.AddService(in)
			if err != nil {
				return err
			}
			return printServices(cmd, sess, []models.Service{*svc}, svc)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Service name (required)")
	f.Int64Var(&in.Price, "price", 0, "Price")
	f.StringVar(&in.Description, "description", "", "Description")
	f.StringVar(&typ, "type", "", "Type: bed, internet, other (default other)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// ---------------------------------------------------------------------------
// services update
// ---------------------------------------------------------------------------

func newUpdate(ctx *shared.Context) *cobra.Command {
	var (
		name, description, typ string
		price                  int64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a catalog service; guests keep the price they were charged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := shared.ParseID(args[0])
			if err != nil {
				return err
			}
			var patch models.ServicePatch
			f := cmd.Flags()
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("price") {
				patch.Price = &price
			}
			if f.Changed("description") {
				patch.Description = &description
			}
			if f.Changed("type") {
				st := models.ServiceType(typ)
				patch.Type = &st
			}

			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			svc, err := sess.UpdateService(id, patch)
			if err != nil {
				return err
			}
			return printServices(cmd, sess, []models.Service{*svc}, svc)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "New name")
	f.Int64Var(&price, "price", 0, "New price")
	f.StringVar(&description, "description", "", "New description")
	f.StringVar(&typ, "type", "", "New type: bed, internet, other")
	return cmd
}

// ---------------------------------------------------------------------------
// services remove
// ---------------------------------------------------------------------------

func newRemove(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a catalog service",
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

			if err := sess.RemoveService(id); err != nil {
				return err
			}
			return sess.Printer.Message(cmd.OutOrStdout(), "Removed service %d", id)
		},
	}
}

// ---------------------------------------------------------------------------
// services book / bookings
// ---------------------------------------------------------------------------

func newBook(ctx *shared.Context) *cobra.Command {
	var cancel bool
	cmd := &cobra.Command{
		Use:   "book <service-id> <room-id>",
		Short: "Book a service for a room (or cancel with --cancel)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serviceID, err := shared.ParseID(args[0])
			if err != nil {
				return err
			}
			roomID, err := shared.ParseID(args[1])
			if err != nil {
				return err
			}
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if cancel {
				if err := sess.RemoveBooking(serviceID, roomID); err != nil {
					return err
				}
				return sess.Printer.Message(cmd.OutOrStdout(), "Cancelled service %d for room %d", serviceID, roomID)
			}
			b, err := sess.BookService(serviceID, roomID)
			if err != nil {
				return err
			}
			return sess.Printer.Print(cmd.OutOrStdout(), b, output.BookingsTable([]models.ServiceBooking{*b}))
		},
	}
	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel the booking instead")
	return cmd
}

func newBookings(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List room service bookings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			bookings, err := sess.ListBookings()
			if err != nil {
				return err
			}
			return sess.Printer.Print(cmd.OutOrStdout(), bookings, output.BookingsTable(bookings))
		},
	}
}

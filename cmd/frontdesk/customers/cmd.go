// Package customerscmd implements the `frontdesk customers` command group.
package customerscmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/output"
)

// Command implements `frontdesk customers`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the customers command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "customers",
		Aliases: []string{"guests"},
		Short:   "Check guests in and out and manage their stays",
	}
	c.cmd.AddCommand(
		newList(ctx),
		newShow(ctx),
		newCheckIn(ctx),
		newUpdate(ctx),
		newCheckOut(ctx),
		newRemove(ctx),
		newAttach(ctx),
		newDetach(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func printCustomer(cmd *cobra.Command, sess *shared.Session, cust *models.Customer) error {
	return sess.Printer.Print(cmd.OutOrStdout(), cust, output.CustomerTable(cust, sess.Printer.Money))
}

// parseDocument accepts "type=file" or a bare file name.
func parseDocument(s string) models.DocumentInput {
	if typ, file, ok := strings.Cut(s, "="); ok {
		return models.DocumentInput{Type: typ, File: file}
	}
	return models.DocumentInput{File: s}
}

// ---------------------------------------------------------------------------
// customers list / show
// ---------------------------------------------------------------------------

func newList(ctx *shared.Context) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List guest stays",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			customers, err := sess.ListCustomers(models.CustomerStatus(status))
			if err != nil {
				return err
			}
			return sess.Printer.Print(cmd.OutOrStdout(), customers, output.CustomersTable(customers, sess.Printer.Money))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: active, checked_out")
	return cmd
}

func newShow(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one stay with its charges and documents",
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

			cust, err := sess.GetCustomer(id)
			if err != nil {
				return err
			}
			return printCustomer(cmd, sess, cust)
		},
	}
}

// ---------------------------------------------------------------------------
// customers checkin
// ---------------------------------------------------------------------------

func newCheckIn(ctx *shared.Context) *cobra.Command {
	var (
		in        models.CustomerInput
		checkIn   string
		roomID    int64
		services  string
		documents []string
	)
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check a guest in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			if checkIn != "" {
				if in.CheckIn, err = models.ParseTime(checkIn, sess.Location); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("room") {
				in.RoomID = &roomID
			}
			if in.ServiceIDs, err = shared.SplitIDs(services); err != nil {
				return err
			}
			for _, d := range documents {
				in.Documents = append(in.Documents, parseDocument(d))
			}

			cust, err := sess.CheckIn(in)
			if err != nil {
				return err
			}
			return printCustomer(cmd, sess, cust)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Guest name (required)")
	f.StringVar(&in.IDNumber, "id-number", "", "Identity document number (required)")
	f.StringVar(&in.Phone, "phone", "", "Phone number (required)")
	f.StringVar(&checkIn, "check-in", "", "Check-in time, e.g. 2024-03-10T12:00 (default now)")
	f.Int64Var(&roomID, "room", 0, "Room ID")
	f.StringVar(&services, "services", "", "Comma-separated service IDs")
	f.StringVar(&in.IDDocument, "id-document", "", "Scanned identity document file")
	f.StringVar(&in.Notes, "notes", "", "Free-form notes")
	f.StringArrayVar(&documents, "document", nil, "Extra document as type=file (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("id-number")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

// ---------------------------------------------------------------------------
// customers update
// ---------------------------------------------------------------------------

func newUpdate(ctx *shared.Context) *cobra.Command {
	var (
		name, idNumber, phone, checkIn string
		idDocument, notes, services    string
		roomID                         int64
		clearRoom                      bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an active stay; moving rooms frees the old one",
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

			f := cmd.Flags()
			patch := models.CustomerPatch{ClearRoom: clearRoom}
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("id-number") {
				patch.IDNumber = &idNumber
			}
			if f.Changed("phone") {
				patch.Phone = &phone
			}
			if f.Changed("id-document") {
				patch.IDDocument = &idDocument
			}
			if f.Changed("notes") {
				patch.Notes = &notes
			}
			if f.Changed("room") {
				patch.RoomID = &roomID
			}
			if f.Changed("services") {
				if patch.ServiceIDs, err = shared.SplitIDs(services); err != nil {
					return err
				}
			}
			if f.Changed("check-in") {
				t, err := models.ParseTime(checkIn, sess.Location)
				if err != nil {
					return err
				}
				patch.CheckIn = &t
			}

			cust, err := sess.UpdateCustomer(id, patch)
			if err != nil {
				return err
			}
			return printCustomer(cmd, sess, cust)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Guest name")
	f.StringVar(&idNumber, "id-number", "", "Identity document number")
	f.StringVar(&phone, "phone", "", "Phone number")
	f.StringVar(&checkIn, "check-in", "", "Check-in time")
	f.Int64Var(&roomID, "room", 0, "Move to this room ID")
	f.BoolVar(&clearRoom, "clear-room", false, "Detach the guest from any room")
	f.StringVar(&services, "services", "", "Replace the charges with these service IDs (empty clears)")
	f.StringVar(&idDocument, "id-document", "", "Scanned identity document file")
	f.StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

// ---------------------------------------------------------------------------
// customers checkout / remove
// ---------------------------------------------------------------------------

func newCheckOut(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <id>",
		Short: "Check a guest out and free the room",
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

			cust, err := sess.CheckOut(id)
			if err != nil {
				return err
			}
			return printCustomer(cmd, sess, cust)
		},
	}
}

func newRemove(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a stay; an active guest's room is freed",
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

			if err := sess.RemoveCustomer(id); err != nil {
				return err
			}
			return sess.Printer.Message(cmd.OutOrStdout(), "Removed customer %d", id)
		},
	}
}

// ---------------------------------------------------------------------------
// customers attach / detach
// ---------------------------------------------------------------------------

func newAttach(ctx *shared.Context) *cobra.Command {
	var asID bool
	cmd := &cobra.Command{
		Use:   "attach <id> <type=file>",
		Short: "Attach a scanned document to a stay",
		Args:  cobra.ExactArgs(2),
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

			if asID {
				cust, err := sess.SetIDDocument(id, args[1])
				if err != nil {
					return err
				}
				return printCustomer(cmd, sess, cust)
			}
			doc, err := sess.AttachDocument(id, parseDocument(args[1]))
			if err != nil {
				return err
			}
			return sess.Printer.Message(cmd.OutOrStdout(), "Attached %s %s as %s", doc.Type, doc.File, doc.ID)
		},
	}
	cmd.Flags().BoolVar(&asID, "id-document", false, "Store the file as the identity document scan")
	return cmd
}

func newDetach(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "detach <id> <document-id>",
		Short: "Remove a document from a stay",
		Args:  cobra.ExactArgs(2),
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

			if err := sess.RemoveDocument(id, args[1]); err != nil {
				return err
			}
			return sess.Printer.Message(cmd.OutOrStdout(), "Removed document %s", args[1])
		},
	}
}

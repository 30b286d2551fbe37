// Package userscmd implements the `frontdesk users` command group.
package userscmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/frontdesk/cmd/frontdesk/shared"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/output"
)

// Command implements `frontdesk users`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the users command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts",
	}
	c.cmd.AddCommand(
		newList(ctx),
		newAdd(ctx),
		newUpdate(ctx),
		newToggle(ctx),
		newRemove(ctx),
		newRoles(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func printUser(cmd *cobra.Command, sess *shared.Session, u *models.User) error {
	return sess.Printer.Print(cmd.OutOrStdout(), u, output.UsersTable([]models.User{*u}))
}

// ---------------------------------------------------------------------------
// users list / roles
// ---------------------------------------------------------------------------

func newList(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List staff accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			users, err := sess.ListUsers()
			if err != nil {
				return err
			}
			return sess.Printer.Print(cmd.OutOrStdout(), users, output.UsersTable(users))
		},
	}
}

func newRoles(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List roles and their permission bundles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := ctx.Printer()
			if err != nil {
				return err
			}
			return p.Print(cmd.OutOrStdout(), models.Roles, output.RolesTable(models.Roles))
		},
	}
}

// ---------------------------------------------------------------------------
// users add
// ---------------------------------------------------------------------------

func newAdd(ctx *shared.Context) *cobra.Command {
	var (
		in          models.UserInput
		permissions string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			in.Permissions = shared.SplitCSV(permissions)
			u, err := sess.AddUser(in)
			if err != nil {
				return err
			}
			return printUser(cmd, sess, u)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Username, "username", "", "Login name (required, unique)")
	f.StringVar(&in.Password, "new-password", "", "Password (required)")
	f.StringVar(&in.Role, "role", models.RoleReceptionist, "Role: admin, manager, receptionist")
	f.StringVar(&in.Name, "name", "", "Full name (required)")
	f.StringVar(&in.Email, "email", "", "Email")
	f.StringVar(&in.Phone, "phone", "", "Phone")
	f.StringVar(&permissions, "permissions", "", "Comma-separated permissions (default: role bundle)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("new-password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// ---------------------------------------------------------------------------
// users update
// ---------------------------------------------------------------------------

func newUpdate(ctx *shared.Context) *cobra.Command {
	var (
		username, password, role, name string
		email, phone, status, perms    string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a staff account; changing role resets permissions to the role bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := shared.ParseID(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			patch := models.UserPatch{Password: password}
			if f.Changed("username") {
				patch.Username = &username
			}
			if f.Changed("role") {
				patch.Role = &role
			}
			if f.Changed("name") {
				patch.Name = &name
			}
			if f.Changed("email") {
				patch.Email = &email
			}
			if f.Changed("phone") {
				patch.Phone = &phone
			}
			if f.Changed("status") {
				st := models.UserStatus(status)
				patch.Status = &st
			}
			if f.Changed("permissions") {
				patch.Permissions = append([]string{}, shared.SplitCSV(perms)...)
			}

			sess, err := ctx.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			u, err := sess.UpdateUser(id, patch)
			if err != nil {
				return err
			}
			return printUser(cmd, sess, u)
		},
	}
	f := cmd.Flags()
	f.StringVar(&username, "username", "", "Login name")
	f.StringVar(&password, "new-password", "", "New password (empty keeps the current one)")
	f.StringVar(&role, "role", "", "Role: admin, manager, receptionist")
	f.StringVar(&name, "name", "", "Full name")
	f.StringVar(&email, "email", "", "Email")
	f.StringVar(&phone, "phone", "", "Phone")
	f.StringVar(&status, "status", "", "Status: active, inactive")
	f.StringVar(&perms, "permissions", "", "Comma-separated permissions")
	return cmd
}

// ---------------------------------------------------------------------------
// users toggle / remove
// ---------------------------------------------------------------------------

func newToggle(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch an account between active and inactive",
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

			u, err := sess.ToggleUserStatus(id)
			if err != nil {
				return err
			}
			return printUser(cmd, sess, u)
		},
	}
}

func newRemove(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a staff account",
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

			if err := sess.RemoveUser(id); err != nil {
				return err
			}
			return sess.Printer.Message(cmd.OutOrStdout(), "Removed user %d", id)
		},
	}
}

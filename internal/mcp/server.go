// Package mcp provides the stdio MCP server that exposes a front-desk
// session as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/frontdesk/internal/buildinfo"
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/report"
	"github.com/go-ports/frontdesk/internal/service"
)

const instructions = `Hotel front desk. Call login first; every other tool except whoami and roles_list acts as the signed-in staff member and is limited by their permissions. Amounts are whole currency units.` //nolint:lll

// handlerFunc runs one tool. A nil result is reported as {"ok": true}.
type handlerFunc func(svc *service.Service, req mcp.CallToolRequest) (any, error)

// NewServer creates and registers all front-desk tools on a new MCP server.
// It is intentionally separate from Serve so that tests and other callers can
// obtain a fully configured server without committing to the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("frontdesk", buildinfo.Version,
		mcpserver.WithInstructions(instructions),
	)
	registerTools(s, svc)
	return s
}

// Serve runs the stdio MCP server on svc, blocking until stdin closes.
func Serve(_ context.Context, svc *service.Service) error {
	return mcpserver.ServeStdio(NewServer(svc))
}

func add(s *mcpserver.MCPServer, svc *service.Service, tool mcp.Tool, h handlerFunc) {
	s.AddTool(tool, func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := h(svc, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if v == nil {
			return jsonResult(map[string]bool{"ok": true})
		}
		return jsonResult(v)
	})
}

// registerTools wires every front-desk tool into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	registerSessionTools(s, svc)
	registerRoomTools(s, svc)
	registerServiceTools(s, svc)
	registerCustomerTools(s, svc)
	registerUserTools(s, svc)
	registerReportTools(s, svc)
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

func registerSessionTools(s *mcpserver.MCPServer, svc *service.Service) {
	add(s, svc, mcp.NewTool("login",
		mcp.WithDescription("Sign in as a staff member. Replaces any signed-in user."),
		mcp.WithString("username", mcp.Required()),
		mcp.WithString("password", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.Login(req.GetString("username", ""), req.GetString("password", ""))
	})

	add(s, svc, mcp.NewTool("logout",
		mcp.WithDescription("Sign out the current staff member."),
	), func(svc *service.Service, _ mcp.CallToolRequest) (any, error) {
		svc.Logout()
		return nil, nil
	})

	add(s, svc, mcp.NewTool("whoami",
		mcp.WithDescription("Show the signed-in staff member, or null."),
	), func(svc *service.Service, _ mcp.CallToolRequest) (any, error) {
		if u := svc.CurrentUser(); u != nil {
			return u, nil
		}
		return map[string]any{"user": nil}, nil
	})
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

func registerRoomTools(s *mcpserver.MCPServer, svc *service.Service) {
	add(s, svc, mcp.NewTool("rooms_list",
		mcp.WithDescription("List rooms. With available=true, lists rooms a guest can be placed in."),
		mcp.WithString("status",
			mcp.Description("Filter by status."),
			mcp.Enum(string(models.RoomAvailable), string(models.RoomOccupied)),
		),
		mcp.WithBoolean("available", mcp.Description("Only rooms free for a guest.")),
		mcp.WithNumber("for_customer", mcp.Description("With available=true, also include this guest's own room.")),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		if req.GetBool("available", false) {
			return svc.AvailableRooms(int64(req.GetInt("for_customer", 0)))
		}
		return svc.ListRooms(models.RoomStatus(req.GetString("status", "")))
	})

	add(s, svc, mcp.NewTool("room_add",
		mcp.WithDescription("Add an available room. Known types (single, double) default beds and price."),
		mcp.WithString("number", mcp.Required(), mcp.Description("Room number, unique.")),
		mcp.WithString("type", mcp.Description("single, double or any other label.")),
		mcp.WithNumber("beds", mcp.Description("1 to 4.")),
		mcp.WithNumber("price", mcp.Description("Nightly price.")),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.AddRoom(models.RoomInput{
			Number: req.GetString("number", ""),
			Type:   req.GetString("type", ""),
			Beds:   req.GetInt("beds", 0),
			Price:  int64(req.GetInt("price", 0)),
		})
	})

	add(s, svc, mcp.NewTool("room_remove",
		mcp.WithDescription("Remove a room. Occupied rooms cannot be removed."),
		mcp.WithNumber("id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return nil, svc.RemoveRoom(int64(req.GetInt("id", 0)))
	})
}

// ---------------------------------------------------------------------------
// Service catalog
// ---------------------------------------------------------------------------

var serviceTypes = []string{string(models.ServiceBed), string(models.ServiceInternet), string(models.ServiceOther)}

func registerServiceTools(s *mcpserver.MCPServer, svc *service.Service) {
	add(s, svc, mcp.NewTool("services_list",
		mcp.WithDescription("List the additional services catalog."),
	), func(svc *service.Service, _ mcp.CallToolRequest) (any, error) {
		return svc.ListServices()
	})

	add(s, svc, mcp.NewTool("service_add",
		mcp.WithDescription("Add a catalog service."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithNumber("price", mcp.Required()),
		mcp.WithString("description"),
		mcp.WithString("type", mcp.Enum(serviceTypes...)),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.AddService(models.ServiceInput{
			Name:        req.GetString("name", ""),
			Price:       int64(req.GetInt("price", 0)),
			Description: req.GetString("description", ""),
			Type:        models.ServiceType(req.GetString("type", "")),
		})
	})

	add(s, svc, mcp.NewTool("service_update",
		mcp.WithDescription("Edit a catalog service. Charges already on guests keep their price."),
		mcp.WithNumber("id", mcp.Required()),
		mcp.WithString("name"),
		mcp.WithNumber("price"),
		mcp.WithString("description"),
		mcp.WithString("type", mcp.Enum(serviceTypes...)),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		patch := models.ServicePatch{
			Name:        optString(args, "name"),
			Price:       optInt(args, "price"),
			Description: optString(args, "description"),
		}
		if t := optString(args, "type"); t != nil {
			st := models.ServiceType(*t)
			patch.Type = &st
		}
		return svc.UpdateService(int64(req.GetInt("id", 0)), patch)
	})

	add(s, svc, mcp.NewTool("service_remove",
		mcp.WithDescription("Remove a catalog service."),
		mcp.WithNumber("id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return nil, svc.RemoveService(int64(req.GetInt("id", 0)))
	})

	add(s, svc, mcp.NewTool("service_book",
		mcp.WithDescription("Book a catalog service for a room."),
		mcp.WithNumber("service_id", mcp.Required()),
		mcp.WithNumber("room_id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.BookService(int64(req.GetInt("service_id", 0)), int64(req.GetInt("room_id", 0)))
	})

	add(s, svc, mcp.NewTool("booking_remove",
		mcp.WithDescription("Cancel the bookings of a service for a room."),
		mcp.WithNumber("service_id", mcp.Required()),
		mcp.WithNumber("room_id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return nil, svc.RemoveBooking(int64(req.GetInt("service_id", 0)), int64(req.GetInt("room_id", 0)))
	})

	add(s, svc, mcp.NewTool("bookings_list",
		mcp.WithDescription("List room service bookings."),
	), func(svc *service.Service, _ mcp.CallToolRequest) (any, error) {
		return svc.ListBookings()
	})
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

func registerCustomerTools(s *mcpserver.MCPServer, svc *service.Service) {
	add(s, svc, mcp.NewTool("customers_list",
		mcp.WithDescription("List guest stays."),
		mcp.WithString("status", mcp.Enum(string(models.CustomerActive), string(models.CustomerCheckedOut))),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.ListCustomers(models.CustomerStatus(req.GetString("status", "")))
	})

	add(s, svc, mcp.NewTool("customer_get",
		mcp.WithDescription("Show one guest stay with charges and documents."),
		mcp.WithNumber("id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.GetCustomer(int64(req.GetInt("id", 0)))
	})

	add(s, svc, mcp.NewTool("checkin",
		mcp.WithDescription("Check a guest in. The room must be available; unknown service IDs are ignored."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("id_number", mcp.Required()),
		mcp.WithString("phone", mcp.Required()),
		mcp.WithString("check_in", mcp.Description("e.g. 2024-03-10T12:00. Defaults to now.")),
		mcp.WithNumber("room_id"),
		mcp.WithArray("services", mcp.Description("Service IDs."), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithString("id_document"),
		mcp.WithString("notes"),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		in := models.CustomerInput{
			Name:       req.GetString("name", ""),
			IDNumber:   req.GetString("id_number", ""),
			Phone:      req.GetString("phone", ""),
			RoomID:     optInt(args, "room_id"),
			IDDocument: req.GetString("id_document", ""),
			Notes:      req.GetString("notes", ""),
		}
		var err error
		if in.ServiceIDs, err = intSlice(args, "services"); err != nil {
			return nil, err
		}
		if raw := req.GetString("check_in", ""); raw != "" {
			if in.CheckIn, err = models.ParseTime(raw, svc.Location); err != nil {
				return nil, err
			}
		}
		return svc.CheckIn(in)
	})

	add(s, svc, mcp.NewTool("customer_update",
		mcp.WithDescription("Edit an active stay. Changing room frees the old one. A services list replaces the charges."),
		mcp.WithNumber("id", mcp.Required()),
		mcp.WithString("name"),
		mcp.WithString("id_number"),
		mcp.WithString("phone"),
		mcp.WithString("check_in"),
		mcp.WithNumber("room_id"),
		mcp.WithBoolean("clear_room", mcp.Description("Detach the guest from any room.")),
		mcp.WithArray("services", mcp.Description("Service IDs."), mcp.Items(map[string]any{"type": "number"})),
		mcp.WithString("id_document"),
		mcp.WithString("notes"),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		patch := models.CustomerPatch{
			Name:       optString(args, "name"),
			IDNumber:   optString(args, "id_number"),
			Phone:      optString(args, "phone"),
			RoomID:     optInt(args, "room_id"),
			ClearRoom:  req.GetBool("clear_room", false),
			IDDocument: optString(args, "id_document"),
			Notes:      optString(args, "notes"),
		}
		if _, ok := args["services"]; ok {
			ids, err := intSlice(args, "services")
			if err != nil {
				return nil, err
			}
			patch.ServiceIDs = append(make([]int64, 0, len(ids)), ids...)
		}
		if raw := optString(args, "check_in"); raw != nil {
			t, err := models.ParseTime(*raw, svc.Location)
			if err != nil {
				return nil, err
			}
			patch.CheckIn = &t
		}
		return svc.UpdateCustomer(int64(req.GetInt("id", 0)), patch)
	})

	add(s, svc, mcp.NewTool("checkout",
		mcp.WithDescription("Check a guest out and free the room."),
		mcp.WithNumber("id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.CheckOut(int64(req.GetInt("id", 0)))
	})

	add(s, svc, mcp.NewTool("customer_remove",
		mcp.WithDescription("Delete a stay. An active guest's room is freed."),
		mcp.WithNumber("id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return nil, svc.RemoveCustomer(int64(req.GetInt("id", 0)))
	})

	add(s, svc, mcp.NewTool("document_attach",
		mcp.WithDescription("Attach a scanned document to a stay."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Customer ID.")),
		mcp.WithString("type", mcp.Description("passport, visa, other...")),
		mcp.WithString("file", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.AttachDocument(int64(req.GetInt("id", 0)), models.DocumentInput{
			Type: req.GetString("type", ""),
			File: req.GetString("file", ""),
		})
	})

	add(s, svc, mcp.NewTool("document_remove",
		mcp.WithDescription("Detach a document from a stay."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Customer ID.")),
		mcp.WithString("document", mcp.Required(), mcp.Description("Document ID.")),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return nil, svc.RemoveDocument(int64(req.GetInt("id", 0)), req.GetString("document", ""))
	})
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

var roleIDs = []string{models.RoleAdmin, models.RoleManager, models.RoleReceptionist}

func registerUserTools(s *mcpserver.MCPServer, svc *service.Service) {
	add(s, svc, mcp.NewTool("users_list",
		mcp.WithDescription("List staff accounts."),
	), func(svc *service.Service, _ mcp.CallToolRequest) (any, error) {
		return svc.ListUsers()
	})

	add(s, svc, mcp.NewTool("roles_list",
		mcp.WithDescription("List roles and the permission catalog."),
	), func(svc *service.Service, _ mcp.CallToolRequest) (any, error) {
		return map[string]any{"roles": svc.Roles(), "permissions": svc.Permissions()}, nil
	})

	add(s, svc, mcp.NewTool("user_add",
		mcp.WithDescription("Add a staff account. Without permissions the role's bundle is used."),
		mcp.WithString("username", mcp.Required()),
		mcp.WithString("password", mcp.Required()),
		mcp.WithString("role", mcp.Required(), mcp.Enum(roleIDs...)),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("email"),
		mcp.WithString("phone"),
		mcp.WithArray("permissions", mcp.WithStringItems()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.AddUser(models.UserInput{
			Username:    req.GetString("username", ""),
			Password:    req.GetString("password", ""),
			Role:        req.GetString("role", ""),
			Name:        req.GetString("name", ""),
			Email:       req.GetString("email", ""),
			Phone:       req.GetString("phone", ""),
			Permissions: req.GetStringSlice("permissions", nil),
		})
	})

	add(s, svc, mcp.NewTool("user_update",
		mcp.WithDescription("Edit a staff account. An empty password keeps the current one."),
		mcp.WithNumber("id", mcp.Required()),
		mcp.WithString("username"),
		mcp.WithString("password"),
		mcp.WithString("role", mcp.Enum(roleIDs...)),
		mcp.WithString("name"),
		mcp.WithString("email"),
		mcp.WithString("phone"),
		mcp.WithString("status", mcp.Enum(string(models.UserActive), string(models.UserInactive))),
		mcp.WithArray("permissions", mcp.WithStringItems()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		patch := models.UserPatch{
			Username:    optString(args, "username"),
			Password:    req.GetString("password", ""),
			Role:        optString(args, "role"),
			Name:        optString(args, "name"),
			Email:       optString(args, "email"),
			Phone:       optString(args, "phone"),
			Permissions: req.GetStringSlice("permissions", nil),
		}
		if st := optString(args, "status"); st != nil {
			us := models.UserStatus(*st)
			patch.Status = &us
		}
		return svc.UpdateUser(int64(req.GetInt("id", 0)), patch)
	})

	add(s, svc, mcp.NewTool("user_remove",
		mcp.WithDescription("Remove a staff account. The signed-in user cannot be removed."),
		mcp.WithNumber("id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return nil, svc.RemoveUser(int64(req.GetInt("id", 0)))
	})

	add(s, svc, mcp.NewTool("user_toggle",
		mcp.WithDescription("Switch a staff account between active and inactive."),
		mcp.WithNumber("id", mcp.Required()),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		return svc.ToggleUserStatus(int64(req.GetInt("id", 0)))
	})
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

func registerReportTools(s *mcpserver.MCPServer, svc *service.Service) {
	add(s, svc, mcp.NewTool("dashboard",
		mcp.WithDescription("Room counts, today's revenue and in-house guests."),
	), func(svc *service.Service, _ mcp.CallToolRequest) (any, error) {
		return svc.Dashboard()
	})

	add(s, svc, mcp.NewTool("activity",
		mcp.WithDescription("Revenue by check-in window, oldest first: 7 days, 4 weeks or 6 months."),
		mcp.WithString("period",
			mcp.Enum(string(report.Daily), string(report.Weekly), string(report.Monthly)),
			mcp.Description("Default daily."),
		),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		p, err := report.ParsePeriod(req.GetString("period", string(report.Daily)))
		if err != nil {
			return nil, err
		}
		return svc.Activity(p)
	})

	add(s, svc, mcp.NewTool("customer_report",
		mcp.WithDescription("Tabular guest report. detailed adds room price, services and totals."),
		mcp.WithString("kind", mcp.Enum(string(report.Basic), string(report.Detailed)), mcp.Description("Default basic.")),
		mcp.WithString("status", mcp.Enum(string(models.CustomerActive), string(models.CustomerCheckedOut))),
	), func(svc *service.Service, req mcp.CallToolRequest) (any, error) {
		k, err := report.ParseKind(req.GetString("kind", string(report.Basic)))
		if err != nil {
			return nil, err
		}
		return svc.CustomerReport(k, models.CustomerStatus(req.GetString("status", "")))
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// optString returns a pointer to args[key] when it is present as a string.
func optString(args map[string]any, key string) *string {
	if s, ok := args[key].(string); ok {
		return &s
	}
	return nil
}

// optInt returns a pointer to args[key] when it is present as a whole number.
func optInt(args map[string]any, key string) *int64 {
	n, ok := toInt(args[key])
	if !ok {
		return nil
	}
	return &n
}

// intSlice reads a list of whole numbers. A missing key yields nil.
func intSlice(args map[string]any, key string) ([]int64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []int:
		for _, n := range v {
			items = append(items, n)
		}
	case []float64:
		for _, n := range v {
			items = append(items, n)
		}
	default:
		return nil, fmt.Errorf("%w: %s must be a list of IDs", models.ErrInvalidInput, key)
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		n, ok := toInt(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %v is not an ID", models.ErrInvalidInput, key, item)
		}
		out = append(out, n)
	}
	return out, nil
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		var i int64
		_, err := fmt.Sscan(strings.TrimSpace(n), &i)
		return i, err == nil
	}
	return 0, false
}

// Package db manages the in-memory SQLite database backing a front-desk session.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/frontdesk/internal/models"
)

const timeLayout = time.RFC3339Nano

// querier is the subset of *sql.DB and *sql.Tx used by the store.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// DB wraps a *sql.DB holding one session's state. Inside InTx the same
// methods run against the open transaction.
type DB struct {
	db   *sql.DB
	q    querier
	name string
}

// Open creates a private in-memory database called name and initialises the
// schema. The data lives until Close.
func Open(name string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	// One connection keeps the memory database alive and serializes writers.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)

	d := &DB{db: sqldb, q: sqldb, name: name}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying connection, discarding all session data.
func (d *DB) Close() error {
	return d.db.Close()
}

// Name returns the in-memory database name.
func (d *DB) Name() string { return d.name }

// InTx runs fn inside a transaction. fn receives a DB bound to the
// transaction; the transaction commits when fn returns nil. Nested calls
// reuse the outer transaction.
func (d *DB) InTx(fn func(tx *DB) error) error {
	if _, nested := d.q.(*sql.Tx); nested {
		return fn(d)
	}
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("InTx begin: %w", err)
	}
	if err := fn(&DB{db: d.db, q: tx, name: d.name}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("InTx commit: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func (d *DB) createSchema() error {
	// INTEGER PRIMARY KEY without AUTOINCREMENT allocates max(id)+1.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id      INTEGER PRIMARY KEY,
			number  TEXT UNIQUE NOT NULL,
			type    TEXT NOT NULL,
			beds    INTEGER NOT NULL,
			price   INTEGER NOT NULL,
			status  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id          INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			price       INTEGER NOT NULL,
			description TEXT,
			type        TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS service_bookings (
			service_id INTEGER NOT NULL,
			room_id    INTEGER NOT NULL,
			booked_at  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id          INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			id_number   TEXT NOT NULL,
			phone       TEXT NOT NULL,
			check_in    TEXT NOT NULL,
			check_out   TEXT,
			room_id     INTEGER,
			room_type   TEXT,
			room_price  INTEGER NOT NULL DEFAULT 0,
			id_document TEXT,
			notes       TEXT,
			status      TEXT NOT NULL,
			created_by      TEXT,
			checked_out_by  TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS customer_services (
			customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			service_id  INTEGER NOT NULL,
			price       INTEGER NOT NULL,
			room_id     INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS customer_documents (
			id          TEXT PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			type        TEXT NOT NULL,
			file        TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY,
			username      TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			name          TEXT NOT NULL,
			email         TEXT,
			phone         TEXT,
			created_at    TEXT NOT NULL,
			status        TEXT NOT NULL,
			permissions   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS customers_status ON customers(status)`,
		`CREATE INDEX IF NOT EXISTS customer_services_customer ON customer_services(customer_id)`,
		`CREATE INDEX IF NOT EXISTS customer_documents_customer ON customer_documents(customer_id)`,
	}

	for _, s := range stmts {
		if _, err := d.q.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

const roomCols = `id, number, type, beds, price, status`

// InsertRoom stores a room. A zero r.ID lets SQLite allocate max(id)+1.
// Returns the room ID.
func (d *DB) InsertRoom(r *models.Room) (int64, error) {
	res, err := d.q.Exec(
		`INSERT INTO rooms (id, number, type, beds, price, status) VALUES (?, ?, ?, ?, ?, ?)`,
		nullID(r.ID), r.Number, r.Type, r.Beds, r.Price, string(r.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("InsertRoom: %w", err)
	}
	return res.LastInsertId()
}

// GetRoom fetches a room by ID.
func (d *DB) GetRoom(id int64) (*models.Room, bool, error) {
	r, err := scanRoom(d.q.QueryRow(`SELECT `+roomCols+` FROM rooms WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("GetRoom: %w", err)
	}
	return r, true, nil
}

// ListRooms returns rooms ordered by ID, optionally filtered by status.
func (d *DB) ListRooms(status models.RoomStatus) ([]models.Room, error) {
	q := `SELECT ` + roomCols + ` FROM rooms`
	var params []any
	if status != "" {
		q += ` WHERE status = ?`
		params = append(params, string(status))
	}
	rows, err := d.q.Query(q+` ORDER BY id`, params...)
	if err != nil {
		return nil, fmt.Errorf("ListRooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]models.Room, 0)
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRooms scan: %w", err)
		}
		rooms = append(rooms, *r)
	}
	return rooms, rows.Err()
}

// RoomNumberExists reports whether a room with the given number exists.
func (d *DB) RoomNumberExists(number string) (bool, error) {
	var n int
	err := d.q.QueryRow(`SELECT COUNT(*) FROM rooms WHERE number = ?`, number).Scan(&n)
	return n > 0, err
}

// SetRoomStatus updates a room's occupancy. Returns false if the room does not exist.
func (d *DB) SetRoomStatus(id int64, status models.RoomStatus) (bool, error) {
	res, err := d.q.Exec(`UPDATE rooms SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return false, fmt.Errorf("SetRoomStatus: %w", err)
	}
	return affected(res)
}

// DeleteRoom removes a room. Returns false if the room does not exist.
func (d *DB) DeleteRoom(id int64) (bool, error) {
	res, err := d.q.Exec(`DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("DeleteRoom: %w", err)
	}
	return affected(res)
}

func scanRoom(s scanner) (*models.Room, error) {
	var r models.Room
	var status string
	if err := s.Scan(&r.ID, &r.Number, &r.Type, &r.Beds, &r.Price, &status); err != nil {
		return nil, err
	}
	r.Status = models.RoomStatus(status)
	return &r, nil
}

// ---------------------------------------------------------------------------
// Services and bookings
// ---------------------------------------------------------------------------

const serviceCols = `id, name, price, COALESCE(description, ''), type`

// InsertService stores a catalog entry and returns its ID.
func (d *DB) InsertService(s *models.Service) (int64, error) {
	res, err := d.q.Exec(
		`INSERT INTO services (id, name, price, description, type) VALUES (?, ?, ?, ?, ?)`,
		nullID(s.ID), s.Name, s.Price, s.Description, string(s.Type),
	)
	if err != nil {
		return 0, fmt.Errorf("InsertService: %w", err)
	}
	return res.LastInsertId()
}

// GetService fetches a catalog entry by ID.
func (d *DB) GetService(id int64) (*models.Service, bool, error) {
	s, err := scanService(d.q.QueryRow(`SELECT `+serviceCols+` FROM services WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("GetService: %w", err)
	}
	return s, true, nil
}

// ListServices returns the catalog ordered by ID.
func (d *DB) ListServices() ([]models.Service, error) {
	rows, err := d.q.Query(`SELECT ` + serviceCols + ` FROM services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListServices: %w", err)
	}
	defer rows.Close()

	services := make([]models.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("ListServices scan: %w", err)
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

// UpdateService overwrites all mutable fields of a catalog entry.
// Returns false if the entry does not exist.
func (d *DB) UpdateService(s *models.Service) (bool, error) {
	res, err := d.q.Exec(
		`UPDATE services SET name = ?, price = ?, description = ?, type = ? WHERE id = ?`,
		s.Name, s.Price, s.Description, string(s.Type), s.ID,
	)
	if err != nil {
		return false, fmt.Errorf("UpdateService: %w", err)
	}
	return affected(res)
}

// DeleteService removes a catalog entry. Charges already attached to guests
// keep their snapshot price.
func (d *DB) DeleteService(id int64) (bool, error) {
	res, err := d.q.Exec(`DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("DeleteService: %w", err)
	}
	return affected(res)
}

// InsertBooking records a service booking for a room.
func (d *DB) InsertBooking(b *models.ServiceBooking) error {
	_, err := d.q.Exec(
		`INSERT INTO service_bookings (service_id, room_id, booked_at) VALUES (?, ?, ?)`,
		b.ServiceID, b.RoomID, b.BookedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("InsertBooking: %w", err)
	}
	return nil
}

// DeleteBookings removes every booking of serviceID for roomID.
// Returns the number of removed bookings.
func (d *DB) DeleteBookings(serviceID, roomID int64) (int, error) {
	res, err := d.q.Exec(
		`DELETE FROM service_bookings WHERE service_id = ? AND room_id = ?`, serviceID, roomID,
	)
	if err != nil {
		return 0, fmt.Errorf("DeleteBookings: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListBookings returns all bookings in insertion order.
func (d *DB) ListBookings() ([]models.ServiceBooking, error) {
	rows, err := d.q.Query(`SELECT service_id, room_id, booked_at FROM service_bookings ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("ListBookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]models.ServiceBooking, 0)
	for rows.Next() {
		var b models.ServiceBooking
		var at string
		if err := rows.Scan(&b.ServiceID, &b.RoomID, &at); err != nil {
			return nil, fmt.Errorf("ListBookings scan: %w", err)
		}
		if b.BookedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("ListBookings booked_at: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanService(s scanner) (*models.Service, error) {
	var svc models.Service
	var typ string
	if err := s.Scan(&svc.ID, &svc.Name, &svc.Price, &svc.Description, &typ); err != nil {
		return nil, err
	}
	svc.Type = models.ServiceType(typ)
	return &svc, nil
}

// ---------------------------------------------------------------------------
// Customers
// ---------------------------------------------------------------------------

const customerCols = `id, name, id_number, phone, check_in, check_out, room_id,
	COALESCE(room_type, ''), room_price, COALESCE(id_document, ''), COALESCE(notes, ''),
	status, created_by, checked_out_by`

// InsertCustomer stores a stay together with its charges and documents.
// Returns the customer ID.
func (d *DB) InsertCustomer(c *models.Customer) (int64, error) {
	var id int64
	err := d.InTx(func(tx *DB) error {
		createdBy, err := marshalRef(c.CreatedBy)
		if err != nil {
			return err
		}
		checkedOutBy, err := marshalRef(c.CheckedOutBy)
		if err != nil {
			return err
		}
		res, err := tx.q.Exec(`
			INSERT INTO customers (
				id, name, id_number, phone, check_in, check_out, room_id,
				room_type, room_price, id_document, notes, status,
				created_by, checked_out_by
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			nullID(c.ID), c.Name, c.IDNumber, c.Phone,
			c.CheckIn.Format(timeLayout), formatTimePtr(c.CheckOut), c.RoomID,
			c.RoomType, c.RoomPrice, c.IDDocument, c.Notes, string(c.Status),
			createdBy, checkedOutBy,
		)
		if err != nil {
			return fmt.Errorf("InsertCustomer: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		if err := tx.ReplaceCharges(id, c.Services); err != nil {
			return err
		}
		for _, doc := range c.Documents {
			if err := tx.InsertDocument(id, doc); err != nil {
				return err
			}
		}
		return nil
	})
	return id, err
}

// GetCustomer fetches a stay with its charges and documents.
func (d *DB) GetCustomer(id int64) (*models.Customer, bool, error) {
	c, err := scanCustomer(d.q.QueryRow(`SELECT `+customerCols+` FROM customers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("GetCustomer: %w", err)
	}
	list := []models.Customer{*c}
	if err := d.loadChildren(list, " WHERE customer_id = ?", id); err != nil {
		return nil, false, err
	}
	return &list[0], true, nil
}

// ListCustomers returns stays ordered by ID, optionally filtered by status.
func (d *DB) ListCustomers(status models.CustomerStatus) ([]models.Customer, error) {
	q := `SELECT ` + customerCols + ` FROM customers`
	var params []any
	if status != "" {
		q += ` WHERE status = ?`
		params = append(params, string(status))
	}
	rows, err := d.q.Query(q+` ORDER BY id`, params...)
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: %w", err)
	}
	customers := make([]models.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("ListCustomers scan: %w", err)
		}
		customers = append(customers, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCustomers rows: %w", err)
	}
	// Children are loaded after rows is closed: the pool holds a single connection.
	if err := d.loadChildren(customers, ""); err != nil {
		return nil, err
	}
	return customers, nil
}

// UpdateCustomer overwrites the scalar fields of a stay. Charges and
// documents are managed separately. Returns false if the stay does not exist.
func (d *DB) UpdateCustomer(c *models.Customer) (bool, error) {
	createdBy, err := marshalRef(c.CreatedBy)
	if err != nil {
		return false, err
	}
	checkedOutBy, err := marshalRef(c.CheckedOutBy)
	if err != nil {
		return false, err
	}
	res, err := d.q.Exec(`
		UPDATE customers
		SET name = ?, id_number = ?, phone = ?, check_in = ?, check_out = ?,
		    room_id = ?, room_type = ?, room_price = ?, id_document = ?, notes = ?,
		    status = ?, created_by = ?, checked_out_by = ?
		WHERE id = ?`,
		c.Name, c.IDNumber, c.Phone, c.CheckIn.Format(timeLayout), formatTimePtr(c.CheckOut),
		c.RoomID, c.RoomType, c.RoomPrice, c.IDDocument, c.Notes,
		string(c.Status), createdBy, checkedOutBy, c.ID,
	)
	if err != nil {
		return false, fmt.Errorf("UpdateCustomer: %w", err)
	}
	return affected(res)
}

// ReplaceCharges swaps the full charge list of a stay.
func (d *DB) ReplaceCharges(customerID int64, charges []models.ServiceCharge) error {
	return d.InTx(func(tx *DB) error {
		if _, err := tx.q.Exec(`DELETE FROM customer_services WHERE customer_id = ?`, customerID); err != nil {
			return fmt.Errorf("ReplaceCharges: delete: %w", err)
		}
		for i, ch := range charges {
			if _, err := tx.q.Exec(
				`INSERT INTO customer_services (customer_id, position, service_id, price, room_id)
				 VALUES (?, ?, ?, ?, ?)`,
				customerID, i, ch.ServiceID, ch.Price, ch.RoomID,
			); err != nil {
				return fmt.Errorf("ReplaceCharges: insert: %w", err)
			}
		}
		return nil
	})
}

// InsertDocument attaches a document to a stay, after any existing ones.
func (d *DB) InsertDocument(customerID int64, doc models.Document) error {
	_, err := d.q.Exec(`
		INSERT INTO customer_documents (id, customer_id, position, type, file)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM customer_documents WHERE customer_id = ?), ?, ?)`,
		doc.ID, customerID, customerID, doc.Type, doc.File,
	)
	if err != nil {
		return fmt.Errorf("InsertDocument: %w", err)
	}
	return nil
}

// DeleteDocument detaches a document from a stay. Returns false if no such
// document is attached to that stay.
func (d *DB) DeleteDocument(customerID int64, docID string) (bool, error) {
	res, err := d.q.Exec(
		`DELETE FROM customer_documents WHERE customer_id = ? AND id = ?`, customerID, docID,
	)
	if err != nil {
		return false, fmt.Errorf("DeleteDocument: %w", err)
	}
	return affected(res)
}

// DeleteCustomer removes a stay with its charges and documents.
// Returns false if the stay does not exist.
func (d *DB) DeleteCustomer(id int64) (bool, error) {
	var found bool
	err := d.InTx(func(tx *DB) error {
		if _, err := tx.q.Exec(`DELETE FROM customer_services WHERE customer_id = ?`, id); err != nil {
			return fmt.Errorf("DeleteCustomer: services: %w", err)
		}
		if _, err := tx.q.Exec(`DELETE FROM customer_documents WHERE customer_id = ?`, id); err != nil {
			return fmt.Errorf("DeleteCustomer: documents: %w", err)
		}
		res, err := tx.q.Exec(`DELETE FROM customers WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("DeleteCustomer: %w", err)
		}
		found, err = affected(res)
		return err
	})
	return found, err
}

// loadChildren fills Services and Documents for customers. where restricts
// both child queries (e.g. to a single customer_id).
func (d *DB) loadChildren(customers []models.Customer, where string, params ...any) error {
	index := make(map[int64]int, len(customers))
	for i := range customers {
		customers[i].Services = make([]models.ServiceCharge, 0)
		customers[i].Documents = make([]models.Document, 0)
		index[customers[i].ID] = i
	}
	if len(customers) == 0 {
		return nil
	}

	rows, err := d.q.Query(
		`SELECT customer_id, service_id, price, room_id FROM customer_services`+where+
			` ORDER BY customer_id, position`, params...) // #nosec G202 -- where is a fixed clause built by this package
	if err != nil {
		return fmt.Errorf("loadChildren services: %w", err)
	}
	for rows.Next() {
		var cid int64
		var ch models.ServiceCharge
		var roomID sql.NullInt64
		if err := rows.Scan(&cid, &ch.ServiceID, &ch.Price, &roomID); err != nil {
			rows.Close()
			return fmt.Errorf("loadChildren services scan: %w", err)
		}
		ch.RoomID = int64Ptr(roomID)
		if i, ok := index[cid]; ok {
			customers[i].Services = append(customers[i].Services, ch)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = d.q.Query(
		`SELECT customer_id, id, type, file FROM customer_documents`+where+
			` ORDER BY customer_id, position`, params...) // #nosec G202 -- where is a fixed clause built by this package
	if err != nil {
		return fmt.Errorf("loadChildren documents: %w", err)
	}
	for rows.Next() {
		var cid int64
		var doc models.Document
		if err := rows.Scan(&cid, &doc.ID, &doc.Type, &doc.File); err != nil {
			rows.Close()
			return fmt.Errorf("loadChildren documents scan: %w", err)
		}
		if i, ok := index[cid]; ok {
			customers[i].Documents = append(customers[i].Documents, doc)
		}
	}
	rows.Close()
	return rows.Err()
}

func scanCustomer(s scanner) (*models.Customer, error) {
	var c models.Customer
	var checkIn, status string
	var checkOut, createdBy, checkedOutBy sql.NullString
	var roomID sql.NullInt64
	if err := s.Scan(
		&c.ID, &c.Name, &c.IDNumber, &c.Phone, &checkIn, &checkOut, &roomID,
		&c.RoomType, &c.RoomPrice, &c.IDDocument, &c.Notes,
		&status, &createdBy, &checkedOutBy,
	); err != nil {
		return nil, err
	}
	var err error
	if c.CheckIn, err = time.Parse(timeLayout, checkIn); err != nil {
		return nil, fmt.Errorf("check_in: %w", err)
	}
	if checkOut.Valid {
		t, err := time.Parse(timeLayout, checkOut.String)
		if err != nil {
			return nil, fmt.Errorf("check_out: %w", err)
		}
		c.CheckOut = &t
	}
	c.RoomID = int64Ptr(roomID)
	c.Status = models.CustomerStatus(status)
	if c.CreatedBy, err = unmarshalRef(createdBy); err != nil {
		return nil, err
	}
	if c.CheckedOutBy, err = unmarshalRef(checkedOutBy); err != nil {
		return nil, err
	}
	return &c, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

const userCols = `id, username, password_hash, role, name, COALESCE(email, ''), COALESCE(phone, ''),
	created_at, status, permissions`

// InsertUser stores a staff account and returns its ID.
func (d *DB) InsertUser(u *models.User) (int64, error) {
	perms, err := json.Marshal(nonNil(u.Permissions))
	if err != nil {
		return 0, err
	}
	res, err := d.q.Exec(`
		INSERT INTO users (
			id, username, password_hash, role, name, email, phone,
			created_at, status, permissions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(u.ID), u.Username, u.PasswordHash, u.Role, u.Name, u.Email, u.Phone,
		u.CreatedAt.Format(timeLayout), string(u.Status), string(perms),
	)
	if err != nil {
		return 0, fmt.Errorf("InsertUser: %w", err)
	}
	return res.LastInsertId()
}

// GetUser fetches a staff account by ID.
func (d *DB) GetUser(id int64) (*models.User, bool, error) {
	return d.getUser(`WHERE id = ?`, id)
}

// GetUserByUsername fetches a staff account by exact username.
func (d *DB) GetUserByUsername(username string) (*models.User, bool, error) {
	return d.getUser(`WHERE username = ?`, username)
}

func (d *DB) getUser(where string, arg any) (*models.User, bool, error) {
	u, err := scanUser(d.q.QueryRow(`SELECT `+userCols+` FROM users `+where, arg)) // #nosec G202 -- where is a fixed clause built by this package
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("GetUser: %w", err)
	}
	return u, true, nil
}

// ListUsers returns all staff accounts ordered by ID.
func (d *DB) ListUsers() ([]models.User, error) {
	rows, err := d.q.Query(`SELECT ` + userCols + ` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUsers scan: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser overwrites all mutable fields of a staff account.
// Returns false if the account does not exist.
func (d *DB) UpdateUser(u *models.User) (bool, error) {
	perms, err := json.Marshal(nonNil(u.Permissions))
	if err != nil {
		return false, err
	}
	res, err := d.q.Exec(`
		UPDATE users
		SET username = ?, password_hash = ?, role = ?, name = ?, email = ?, phone = ?,
		    status = ?, permissions = ?
		WHERE id = ?`,
		u.Username, u.PasswordHash, u.Role, u.Name, u.Email, u.Phone,
		string(u.Status), string(perms), u.ID,
	)
	if err != nil {
		return false, fmt.Errorf("UpdateUser: %w", err)
	}
	return affected(res)
}

// DeleteUser removes a staff account. Returns false if it does not exist.
func (d *DB) DeleteUser(id int64) (bool, error) {
	res, err := d.q.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("DeleteUser: %w", err)
	}
	return affected(res)
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	var createdAt, status, perms string
	if err := s.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.Email, &u.Phone,
		&createdAt, &status, &perms,
	); err != nil {
		return nil, err
	}
	var err error
	if u.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	u.Status = models.UserStatus(status)
	if err := json.Unmarshal([]byte(perms), &u.Permissions); err != nil {
		return nil, fmt.Errorf("permissions: %w", err)
	}
	return &u, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// nullID maps a zero ID to NULL so SQLite allocates the next one.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

func marshalRef(ref *models.StaffRef) (any, error) {
	if ref == nil {
		return nil, nil
	}
	b, err := json.Marshal(ref)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalRef(s sql.NullString) (*models.StaffRef, error) {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return nil, nil
	}
	var ref models.StaffRef
	if err := json.Unmarshal([]byte(s.String), &ref); err != nil {
		return nil, fmt.Errorf("staff ref: %w", err)
	}
	return &ref, nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return make([]string, 0)
	}
	return ss
}

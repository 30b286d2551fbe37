package service

import (
	"github.com/go-ports/frontdesk/internal/models"
	"github.com/go-ports/frontdesk/internal/report"
)

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// Dashboard summarizes rooms, today's revenue and in-house guests.
func (s *Service) Dashboard() (*report.Dashboard, error) {
	if _, err := s.require(""); err != nil {
		return nil, err
	}
	rooms, err := s.database.ListRooms("")
	if err != nil {
		return nil, wrap("Dashboard", err)
	}
	customers, err := s.database.ListCustomers("")
	if err != nil {
		return nil, wrap("Dashboard", err)
	}
	return report.BuildDashboard(rooms, customers, s.Now()), nil
}

// Activity returns revenue windows for period, oldest first.
func (s *Service) Activity(period report.Period) (*report.Activity, error) {
	if _, err := s.require(models.PermViewReports); err != nil {
		return nil, err
	}
	customers, err := s.database.ListCustomers("")
	if err != nil {
		return nil, wrap("Activity", err)
	}
	a, err := report.BuildActivity(customers, period, s.Now())
	return a, wrap("Activity", err)
}

// CustomerReport lays out stays with the given status (all when empty).
func (s *Service) CustomerReport(kind report.Kind, status models.CustomerStatus) (*report.CustomerReport, error) {
	if _, err := s.require(models.PermViewReports); err != nil {
		return nil, err
	}
	customers, err := s.database.ListCustomers(status)
	if err != nil {
		return nil, wrap("CustomerReport", err)
	}
	r, err := report.BuildCustomerReport(customers, kind, s.Now())
	return r, wrap("CustomerReport", err)
}

// Package tables registers all silver table definitions with the core registry.
// Import this package to ensure all tables are registered.
package tables

// This file exists to provide a single import point.
// Each source system file uses init() to register its tables.

// Source system groups.
const (
	GroupCRM = "CRM"
	GroupERP = "ERP"
)

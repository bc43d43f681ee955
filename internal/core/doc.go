// Package core provides the full-refresh logic that rebuilds the silver tier
// of the warehouse from bronze.
//
// This package holds all domain orchestration independent of any transport
// layer. It is used by the CLI, the HTTP ops surface, and tests without
// modification. The per-column rules live in package transform; core wires
// them to the database.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Table Definitions: Registered via the registry, each table names its
//     bronze source, its silver target, its columns, and a function that
//     builds the silver rows.
//   - TableRefresher: Replaces one silver table inside a transaction
//     (TRUNCATE, COPY, COMMIT).
//   - RunLogger: Times tables and batches, writes progress lines and
//     observes metrics.
//   - Service: The main entry point ([Service.RunFullRefresh]).
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// contains everything needed to refresh a specific table:
//
//	core.Register(core.TableDefinition{
//	    Info: core.TableInfo{
//	        Key:      "erp_loc_a101",
//	        Sequence: 50,
//	        Columns:  []string{"cid", "cntry"},
//	    },
//	    BuildRows: buildLocationRows,
//	})
//
// [All] returns definitions ordered by Sequence, which is the refresh order.
//
// # Refresh Flow
//
// For each table, in order:
//
//  1. BuildRows reads bronze and applies the table's rules in memory
//  2. A transaction truncates the silver table and COPYs the rows in
//  3. The transaction commits, or rolls back and keeps the old contents
//
// The first failure skips the remaining tables unless ContinueOnError is
// set. With Parallel set, all tables run at once, each in its own
// transaction.
//
// # Error Handling
//
// Failures are described with [DescribeError]: PostgreSQL errors keep their
// SQLSTATE code and severity, other errors are matched to codes such as
// RUN002 (timeout). Every table's outcome is returned in a [RunResult].
package core

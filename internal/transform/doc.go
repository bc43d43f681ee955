// Package transform holds the per-table bronze-to-silver row rules.
//
// Every function here is pure: it takes the rows read from a bronze table and
// returns the rows to load into the matching silver table. Nothing in this
// package touches the database, so the rules can be exercised directly in
// tests. NULLs are carried as pgtype values with Valid=false; amounts are
// carried as decimal.NullDecimal so consistency checks compare exactly.
package transform

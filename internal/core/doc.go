// Package core provides the business logic for survey project runs.
//
// This package is the heart of surveybase, containing all domain logic
// independent of any UI or transport layer. It can be used by web handlers,
// the CLI, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Projects: a named survey with an ordered list of column rules and the
//     latest workbook produced for it.
//   - Service: the main entry point for all operations (CRUD, runs, history).
//   - Store: persistence behind an interface, implemented on PostgreSQL by
//     [PgStore].
//   - RunLimiter: bounds concurrent runs and drains them on shutdown.
//
// # Project Run
//
// [Service.ProcessProject] executes one run end to end:
//
//  1. Load the project and require its survey id
//  2. Acquire a run slot from the [RunLimiter]
//  3. List interview ids, then fetch the export in chunks
//  4. Build the answer table and apply the project's rules
//  5. Render the workbook and store it on the project (and the mirror)
//  6. Record the run with its counts, diagnostics and error code
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - CFG001: project or API not configured
//   - COL001-COL002, RULE001: rule application failures
//   - UPS001-UPS003: survey platform failures
//   - RUN001-RUN002: run slots and missing artifacts
//   - DB001-DB008: database errors
//
// # Retention
//
// Finished runs older than the configured number of days are purged by
// [Service.StartRetentionScheduler].
package core

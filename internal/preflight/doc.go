// Package preflight provides readiness checks for the external tools and
// filesystem paths a compression run depends on.
//
// These checks run in two contexts:
//   - compress.Service calls ForRun before encoding and logs a
//     warning for every failed check; nothing here aborts a run.
//   - The CLI "squeeze doctor" command renders every check as a table.
package preflight

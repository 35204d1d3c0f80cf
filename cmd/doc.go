// Package cmd provides the command-line interface for trackforge.
//
// This package implements all CLI commands using the Cobra framework on top
// of the template engine in internal/.
//
// # Available Commands
//
//   - list: List the templates of a game version with their languages
//   - validate: Validate templates without saving them
//   - create, copy, delete: Manage template files
//   - lang: Create, copy, delete and list language files
//   - sync: Synchronize legacy helper stats and save
//   - fmt: Rewrite templates in canonical form
//   - import: Merge candidate entries from a parsed save into a template
//   - export, unpack: Move templates between installations as zip archives
//   - diff: Compare two templates
//   - icons: List the icons templates can reference
//   - watch: Report template changes as files are edited
//   - version: Show build information
//
// # Command Examples
//
//	// Validate every template of a legacy version
//	trackforge validate --all -g 1.6.4
//
//	// Merge every candidate of a save into a template
//	trackforge import all_advancements save.json --all
//
//	// Compare a template with its flagged variant
//	trackforge diff all_advancements all_advancements/_rsg
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (TRACKFORGE_*)
//  3. Configuration file (.trackforge.yml)
//  4. Default values (lowest priority)
//
// # Error Handling
//
// Commands return structured errors from internal/errors. A save that fails
// validation writes nothing and reports the offending entry and rule code.
package cmd

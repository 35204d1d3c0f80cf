// Package internal contains the core implementation packages for trackforge.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the trackforge CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - template: The in-memory template document and lookups by root name
//   - validation: Consistency rules a template must pass before it is saved
//   - diff: Field by field document comparison
//   - legacy: Helper stats that legacy multi-stage goals depend on
//   - codec: Template and language file encoding with stable key order
//   - scanner, registry: Template discovery and the rescan signal
//   - catalog: Template and language file operations
//   - importer: Merging candidates from a parsed save
//   - editor: Editing sessions with save, revert and selection
//   - archive: Zip export and import of templates
//   - icons: Icon lookup below the icons directory
//   - watcher: File system monitoring with debouncing
//   - config, logging, errors, version: Ambient support
//
// # Inter-Package Communication
//
//   - Catalog operations and the watcher mark the registry dirty
//   - The scanner consumes the dirty flag and synchronizes the registry
//   - Editor sessions run legacy synchronization, validation and the codec
//     in that order on every save
//
// Pure packages (template, validation, diff, legacy and codec encoding) do
// no I/O and never log.
package internal

// Package pkg provides the core libraries for modresolve.
//
// # Overview
//
// Modresolve turns a module coordinate ("group:artifact:version") into a
// downloaded archive from an HTTP repository laid out the Maven way. The pkg
// directory is organized as follows:
//
//  1. [maven] - Coordinate resolution, snapshot metadata scanning and the
//     fetch state machine
//  2. [resolver] - Repository strategies and the fall-through chain
//  3. [httputil] - HTTP client for repository requests
//  4. [fsutil] - Atomic destination writer
//  5. [errors] - Structured error codes
//  6. [observability] - Hooks for metrics and tracing
//
// # Data Flow
//
//	"org.foo:bar:1.0.2-SNAPSHOT"
//	         ↓
//	maven.Resolve → /maven2/org/foo/bar/1.0.2-SNAPSHOT/
//	         ↓
//	GET maven-metadata.xml → scan <snapshot>
//	         ↓
//	GET bar-1.0.2-20130615.120000-7.zip → fsutil.FileWriter
//
// Releases skip the metadata request.
//
// [maven]: github.com/matzehuels/modresolve/pkg/maven
// [resolver]: github.com/matzehuels/modresolve/pkg/resolver
// [httputil]: github.com/matzehuels/modresolve/pkg/httputil
// [fsutil]: github.com/matzehuels/modresolve/pkg/fsutil
// [errors]: github.com/matzehuels/modresolve/pkg/errors
// [observability]: github.com/matzehuels/modresolve/pkg/observability
package pkg

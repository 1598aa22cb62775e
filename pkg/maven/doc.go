// Package maven resolves module coordinates against HTTP repositories that
// follow the Maven directory layout and downloads the resulting artifacts.
//
// # Overview
//
// A coordinate "group:artifact:version" maps to a version directory:
//
//	contentRoot/group/with/dots/as/slashes/artifact/version/
//
// Release versions name their artifact directly ("artifact-version.zip").
// Snapshot versions (ending in "-SNAPSHOT") are resolved through the
// directory's maven-metadata.xml: when it carries a <snapshot> element the
// artifact is "artifact-<base>-<timestamp>-<buildNumber>.zip", otherwise the
// release naming applies.
//
// # Usage
//
//	f := maven.NewFetcher(httputil.NewClient(), fsutil.NewFileWriter())
//	loc := maven.RepositoryLocation{Host: "repo1.maven.org", Port: 80, ContentRoot: "/maven2"}
//
//	out, err := f.Fetch(ctx, "org.foo:bar:1.0.2-SNAPSHOT", loc, "mods/bar.zip")
//	if err != nil {
//	    return err // malformed coordinate or location, nothing was requested
//	}
//	switch out.Kind {
//	case maven.Downloaded:
//	case maven.NotFound:          // try another repository
//	case maven.TransportFailed:   // couldn't check
//	case maven.MetadataMalformed: // snapshot metadata unusable
//	}
//
// # State Machine
//
// Each resolution walks Start, MetadataRequested, MetadataParsed,
// ArtifactRequested and Done, skipping the metadata states for releases.
// At most one request is in flight and the artifact request is issued only
// after the metadata body has been fully read and scanned. Every resolution
// ends in exactly one [Outcome].
//
// Status handling per request:
//
//	metadata: 200 -> scan, 404 -> NotFound, other -> TransportFailed
//	artifact: 200 -> write, other (404 included) -> TransportFailed
//
// The destination writer is only invoked after a 200 on the artifact request.
//
// # Metadata Scanning
//
// [ScanSnapshot] uses substring search, not an XML parser: the timestamp is
// the fixed-width 15 characters after <timestamp>, the build number runs up to
// the next '<'. Both are validated and a mismatch is METADATA_MALFORMED.
//
// # Timeouts
//
// Each request gets its own deadline ([WithRequestTimeout]), which covers
// the body transfer. An expired deadline is a TransportFailed outcome whose
// error carries the TIMEOUT code.
package maven

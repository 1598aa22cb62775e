package maven

import (
	"strconv"
	"strings"

	"github.com/matzehuels/modresolve/pkg/errors"
)

const (
	// SnapshotSuffix marks a version whose artifact filename is resolved
	// through the repository metadata document.
	SnapshotSuffix = "-SNAPSHOT"

	// MetadataFilename is the metadata document expected under a version directory.
	MetadataFilename = "maven-metadata.xml"

	// ArtifactExtension is the packaging of every resolved module.
	ArtifactExtension = ".zip"
)

// Coordinate identifies a module in a Maven-layout repository.
//
// Coordinates are parsed from "groupId:artifactId:version" strings with
// [ParseCoordinate]; all three fields are non-empty in a parsed value.
// Coordinate is a plain value and safe to share.
type Coordinate struct {
	GroupID    string // e.g. "org.mycompany.foo"
	ArtifactID string // e.g. "foo_module"
	Version    string // e.g. "1.0.2" or "1.0.2-SNAPSHOT"
}

// ParseCoordinate parses s in the form "groupId:artifactId:version".
//
// It fails with code MALFORMED_COORDINATE when s does not split into exactly
// three non-empty segments, or when a segment contains characters that would
// change the shape of the repository path.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"%q must be of the form <group_id>:<artifact_id>:<version>", s)
	}

	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	for _, seg := range []struct{ kind, value string }{
		{"group", c.GroupID},
		{"artifact", c.ArtifactID},
		{"version", c.Version},
	} {
		if err := errors.ValidateSegment(seg.kind, seg.value); err != nil {
			return Coordinate{}, errors.Wrap(errors.ErrCodeMalformedCoordinate, err, "invalid coordinate %q", s)
		}
	}
	for _, part := range strings.Split(c.GroupID, ".") {
		if part == "" {
			return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
				"invalid coordinate %q: group has an empty path element", s)
		}
	}
	return c, nil
}

// String returns the coordinate in "groupId:artifactId:version" form.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// IsSnapshot reports whether the version ends with "-SNAPSHOT".
func (c Coordinate) IsSnapshot() bool {
	return strings.HasSuffix(c.Version, SnapshotSuffix)
}

// RepositoryLocation addresses a Maven-layout HTTP repository.
// It is supplied by the caller and never modified.
type RepositoryLocation struct {
	Host        string // e.g. "repo1.maven.org"
	Port        int    // e.g. 80
	ContentRoot string // e.g. "/maven2"; may be empty
}

// Validate checks that the location can be used to build requests.
func (l RepositoryLocation) Validate() error {
	if err := errors.ValidateHostPort(l.Host, l.Port); err != nil {
		return err
	}
	return errors.ValidateContentRoot(l.ContentRoot)
}

// String returns "host:port/contentRoot".
func (l RepositoryLocation) String() string {
	return l.Host + ":" + strconv.Itoa(l.Port) + l.ContentRoot
}

// Target is the directory under which a coordinate's metadata document and
// artifact files live. BaseURI always ends with "/".
type Target struct {
	BaseURI string
}

// MetadataPath returns the request path of the metadata document.
func (t Target) MetadataPath() string {
	return t.BaseURI + MetadataFilename
}

// FilePath returns the request path of filename under the target.
func (t Target) FilePath(filename string) string {
	return t.BaseURI + filename
}

// BaseURI builds the version directory of c under contentRoot:
//
//	contentRoot/group/with/dots/as/slashes/artifact/version/
//
// Every request path is built by appending a filename to the result, so the
// trailing slash is part of the contract.
func BaseURI(c Coordinate, contentRoot string) string {
	var b strings.Builder
	b.WriteString(contentRoot)
	b.WriteByte('/')
	for _, part := range strings.Split(c.GroupID, ".") {
		b.WriteString(part)
		b.WriteByte('/')
	}
	b.WriteString(c.ArtifactID)
	b.WriteByte('/')
	b.WriteString(c.Version)
	b.WriteByte('/')
	return b.String()
}

// Resolve parses coordinate and computes its [Target] in loc.
//
// Resolve is pure and performs no network activity. It fails with
// MALFORMED_COORDINATE or INVALID_LOCATION.
func Resolve(coordinate string, loc RepositoryLocation) (Target, Coordinate, error) {
	c, err := ParseCoordinate(coordinate)
	if err != nil {
		return Target{}, Coordinate{}, err
	}
	if err := loc.Validate(); err != nil {
		return Target{}, Coordinate{}, err
	}
	return Target{BaseURI: BaseURI(c, loc.ContentRoot)}, c, nil
}

// ReleaseFilename returns "artifact-version.zip". Non-timestamped snapshots
// use the same name, suffix included.
func ReleaseFilename(c Coordinate) string {
	return c.ArtifactID + "-" + c.Version + ArtifactExtension
}

// SnapshotFilename returns the timestamped snapshot filename
// "artifact-<version without -SNAPSHOT>-timestamp-buildNumber.zip".
func SnapshotFilename(c Coordinate, d SnapshotDescriptor) string {
	base := strings.TrimSuffix(c.Version, SnapshotSuffix)
	return c.ArtifactID + "-" + base + "-" + d.Timestamp + "-" + d.BuildNumber + ArtifactExtension
}

package maven

import (
	"strings"

	"github.com/matzehuels/modresolve/pkg/errors"
)

const (
	snapshotTag    = "<snapshot>"
	timestampTag   = "<timestamp>"
	buildNumberTag = "<buildNumber>"

	// timestampLen is the width of a "yyyyMMdd.HHmmss" timestamp.
	timestampLen = 15
)

// SnapshotDescriptor identifies one published build of a snapshot version.
type SnapshotDescriptor struct {
	Timestamp   string // "yyyyMMdd.HHmmss"
	BuildNumber string // decimal, e.g. "7"
}

// ScanSnapshot extracts the snapshot descriptor from a maven-metadata.xml
// document without parsing it as XML.
//
// It returns ok=false with a nil error when the document has no <snapshot>
// element (a non-timestamped snapshot). When <snapshot> is present, the
// timestamp is the 15 characters following the first <timestamp> after it,
// and the build number runs from the end of the first <buildNumber> after it
// up to the next '<'. A missing tag or a value of the wrong shape fails with
// METADATA_MALFORMED.
func ScanSnapshot(data string) (d SnapshotDescriptor, ok bool, err error) {
	anchor := strings.Index(data, snapshotTag)
	if anchor == -1 {
		return SnapshotDescriptor{}, false, nil
	}
	rest := data[anchor:]

	i := strings.Index(rest, timestampTag)
	if i == -1 {
		return SnapshotDescriptor{}, false, errors.New(errors.ErrCodeMetadataMalformed, "snapshot has no %s", timestampTag)
	}
	start := i + len(timestampTag)
	if start+timestampLen > len(rest) {
		return SnapshotDescriptor{}, false, errors.New(errors.ErrCodeMetadataMalformed, "truncated timestamp")
	}
	ts := rest[start : start+timestampLen]
	if !validTimestamp(ts) {
		return SnapshotDescriptor{}, false, errors.New(errors.ErrCodeMetadataMalformed, "invalid timestamp %q", ts)
	}

	j := strings.Index(rest, buildNumberTag)
	if j == -1 {
		return SnapshotDescriptor{}, false, errors.New(errors.ErrCodeMetadataMalformed, "snapshot has no %s", buildNumberTag)
	}
	start = j + len(buildNumberTag)
	end := strings.IndexByte(rest[start:], '<')
	if end == -1 {
		return SnapshotDescriptor{}, false, errors.New(errors.ErrCodeMetadataMalformed, "unterminated build number")
	}
	bn := rest[start : start+end]
	if !allDigits(bn) {
		return SnapshotDescriptor{}, false, errors.New(errors.ErrCodeMetadataMalformed, "invalid build number %q", bn)
	}

	return SnapshotDescriptor{Timestamp: ts, BuildNumber: bn}, true, nil
}

// validTimestamp reports whether s looks like "yyyyMMdd.HHmmss".
func validTimestamp(s string) bool {
	return len(s) == timestampLen && s[8] == '.' && allDigits(s[:8]) && allDigits(s[9:])
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

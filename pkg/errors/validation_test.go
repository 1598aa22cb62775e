package errors

import (
	"strings"
	"testing"
)

func TestValidateSegment(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "bar", false},
		{"dotted group", "org.foo", false},
		{"snapshot version", "1.0.2-SNAPSHOT", false},
		{"underscore", "foo_module", false},
		{"empty", "", true},
		{"slash", "org/foo", true},
		{"backslash", "org\\foo", true},
		{"traversal", "..", true},
		{"embedded traversal", "1..2", true},
		{"control char", "bar\n", true},
		{"null byte", "bar\x00", true},
		{"too long", strings.Repeat("a", 257), true},
		{"max length", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSegment("artifact", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSegment(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeMalformedCoordinate) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeMalformedCoordinate)
			}
		})
	}
}

func TestValidateContentRoot(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		wantErr bool
	}{
		{"empty", "", false},
		{"maven2", "/maven2", false},
		{"nested", "/nexus/content/repositories/releases", false},
		{"relative", "maven2", true},
		{"trailing slash", "/maven2/", true},
		{"root only", "/", true},
		{"traversal", "/maven2/../etc", true},
		{"backslash", "/maven2\\x", true},
		{"control", "/maven2\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContentRoot(tt.root)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateContentRoot(%q) error = %v, wantErr %v", tt.root, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLocation) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidLocation)
			}
		})
	}
}

func TestValidateHostPort(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		port    int
		wantErr bool
	}{
		{"valid", "repo1.maven.org", 80, false},
		{"localhost", "127.0.0.1", 8081, false},
		{"max port", "localhost", 65535, false},
		{"empty host", "", 80, true},
		{"blank host", "   ", 80, true},
		{"host with path", "repo/maven2", 80, true},
		{"zero port", "localhost", 0, true},
		{"negative port", "localhost", -1, true},
		{"port too large", "localhost", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostPort(tt.host, tt.port)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHostPort(%q, %d) error = %v, wantErr %v", tt.host, tt.port, err, tt.wantErr)
			}
		})
	}
}

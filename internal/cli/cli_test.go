package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/modresolve/internal/repotest"
	"github.com/matzehuels/modresolve/pkg/errors"
	"github.com/matzehuels/modresolve/pkg/maven"
)

// execute runs the root command with args and an isolated config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeContext(t, context.Background(), args...)
	return stdout, err
}

// executeContext runs the root command under ctx and returns what it wrote
// to stdout and stderr.
func executeContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	cfg := filepath.Join(t.TempDir(), "config.toml")
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func repoFlag(repo *repotest.Repository) string {
	host, port := repo.HostPort()
	return host + ":" + strconv.Itoa(port) + "/maven2"
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := map[string]bool{"resolve": false, "path": false, "config": false, "completion": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"cancelled", context.Canceled, ExitCancelled},
		{"cancelled chain", errors.Wrap(errors.ErrCodeCancelled, context.Canceled, "stopped"), ExitCancelled},
		{"not found", errors.New(errors.ErrCodeNotFound, "missing"), ExitNotFound},
		{"reported not found", reported(errors.New(errors.ErrCodeNotFound, "missing")), ExitNotFound},
		{"malformed coordinate", errors.New(errors.ErrCodeMalformedCoordinate, "bad"), ExitUsage},
		{"invalid config", errors.New(errors.ErrCodeInvalidConfig, "bad"), ExitUsage},
		{"transport", errors.New(errors.ErrCodeTransport, "boom"), ExitFailure},
		{"plain", io.EOF, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveCommand_Release(t *testing.T) {
	repo := repotest.New(t)
	repo.PutString("/maven2/org/foo/bar/1.0.2/bar-1.0.2.zip", "release")
	dir := t.TempDir()

	if _, err := execute(t, "resolve", "org.foo:bar:1.0.2", "-q", "--repo", repoFlag(repo), "-o", dir); err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bar-1.0.2.zip"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "release" {
		t.Errorf("contents = %q", data)
	}
}

func TestResolveCommand_SnapshotToFile(t *testing.T) {
	repo := repotest.New(t)
	repo.PutString("/maven2/org/foo/bar/1.0.2-SNAPSHOT/maven-metadata.xml",
		"<metadata><versioning><snapshot><timestamp>20130615.120000</timestamp><buildNumber>12</buildNumber></snapshot></versioning></metadata>")
	repo.PutString("/maven2/org/foo/bar/1.0.2-SNAPSHOT/bar-1.0.2-20130615.120000-12.zip", "snap")
	dest := filepath.Join(t.TempDir(), "out", "bar.zip")

	if _, err := execute(t, "resolve", "org.foo:bar:1.0.2-SNAPSHOT", "-q", "--repo", repoFlag(repo), "-o", dest); err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "snap" {
		t.Errorf("contents = %q", data)
	}
}

func TestResolveCommand_Failures(t *testing.T) {
	repo := repotest.New(t)

	tests := []struct {
		name       string
		coordinate string
		wantCode   errors.Code
		wantExit   int
	}{
		{"snapshot metadata missing", "org.foo:bar:1.0.2-SNAPSHOT", errors.ErrCodeNotFound, ExitNotFound},
		{"release artifact missing", "org.foo:bar:1.0.2", errors.ErrCodeTransport, ExitFailure},
		{"malformed coordinate", "org.foo:bar", errors.ErrCodeMalformedCoordinate, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "resolve", tt.coordinate, "-q", "--repo", repoFlag(repo), "-o", t.TempDir())
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %v", err, tt.wantCode)
			}
			if got := ExitCode(err); got != tt.wantExit {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantExit)
			}
		})
	}
}

func TestResolveCommand_DownloadedOutput(t *testing.T) {
	repo := repotest.New(t)
	repo.PutString("/maven2/org/foo/bar/1.0.2/bar-1.0.2.zip", "release")
	dir := t.TempDir()

	out, err := execute(t, "resolve", "org.foo:bar:1.0.2", "-q", "--repo", repoFlag(repo), "-o", dir)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	for _, want := range []string{
		"Downloaded",
		"org.foo:bar:1.0.2",
		"/maven2/org/foo/bar/1.0.2/bar-1.0.2.zip",
		filepath.Join(dir, "bar-1.0.2.zip"),
		"bytes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveCommand_FailureReportedOnce(t *testing.T) {
	repo := repotest.New(t)
	repo.PutStatus("/maven2/org/foo/bar/1.0.2/bar-1.0.2.zip", http.StatusServiceUnavailable)

	stdout, stderr, err := executeContext(t, context.Background(),
		"resolve", "org.foo:bar:1.0.2", "-q", "--repo", repoFlag(repo), "-o", t.TempDir())
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Fatalf("error = %v, want TRANSPORT_FAILED", err)
	}
	if !Reported(err) {
		t.Error("outcome failure not marked as reported")
	}

	msg := errors.UserMessage(err)
	if n := strings.Count(stdout+stderr, msg); n != 1 {
		t.Errorf("%q printed %d times:\nstdout:\n%s\nstderr:\n%s", msg, n, stdout, stderr)
	}
	for _, want := range []string{"TransportFailed", "503"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestResolveCommand_InputErrorsLeftToCaller(t *testing.T) {
	stdout, stderr, err := executeContext(t, context.Background(), "resolve", "org.foo:bar", "-q")
	if !errors.Is(err, errors.ErrCodeMalformedCoordinate) {
		t.Fatalf("error = %v, want MALFORMED_COORDINATE", err)
	}
	if Reported(err) {
		t.Error("input error marked as reported")
	}
	if stdout != "" || stderr != "" {
		t.Errorf("unexpected output:\nstdout:\n%s\nstderr:\n%s", stdout, stderr)
	}
}

func TestResolveCommand_Interrupted(t *testing.T) {
	repo := repotest.New(t)
	repo.PutString("/maven2/org/foo/bar/1.0.2/bar-1.0.2.zip", "release")
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, err := executeContext(t, ctx, "resolve", "org.foo:bar:1.0.2", "--repo", repoFlag(repo), "-o", dir)
	if got := ExitCode(err); got != ExitCancelled {
		t.Errorf("ExitCode() = %d, want %d (err: %v)", got, ExitCancelled, err)
	}
	if !errors.Is(err, errors.ErrCodeCancelled) {
		t.Errorf("error = %v, want CANCELLED", err)
	}
	if !Reported(err) || !strings.Contains(stdout, "Interrupted") {
		t.Errorf("interruption not reported:\n%s", stdout)
	}
	if repo.Count() != 0 {
		t.Errorf("requests = %d after cancellation", repo.Count())
	}
	if _, err := os.Stat(filepath.Join(dir, "bar-1.0.2.zip")); !os.IsNotExist(err) {
		t.Errorf("file written after cancellation: %v", err)
	}
}

func TestResolveCommand_VerboseLogsRepositories(t *testing.T) {
	repo := repotest.New(t)
	repo.PutString("/maven2/org/foo/bar/1.0.2/bar-1.0.2.zip", "release")

	var logs bytes.Buffer
	root := New(&logs, LogDebug).RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "config.toml"),
		"resolve", "org.foo:bar:1.0.2", "-q", "--repo", repoFlag(repo), "-o", t.TempDir()})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	for _, want := range []string{"trying repository", "Resolved org.foo:bar:1.0.2"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("logs missing %q:\n%s", want, logs.String())
		}
	}
}

func TestResolveCommand_InvalidRepo(t *testing.T) {
	_, err := execute(t, "resolve", "org.foo:bar:1.0.2", "-q", "--repo", "host:notaport")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestDestinationPath(t *testing.T) {
	coord := maven.Coordinate{GroupID: "org.foo", ArtifactID: "bar", Version: "1.0.2"}
	dir := t.TempDir()

	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"default dir", "", filepath.Join("defaults", "bar-1.0.2.zip")},
		{"existing dir", dir, filepath.Join(dir, "bar-1.0.2.zip")},
		{"trailing slash", "new/", filepath.Join("new", "bar-1.0.2.zip")},
		{"file", filepath.Join(dir, "x.zip"), filepath.Join(dir, "x.zip")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := destinationPath(tt.output, "defaults", coord)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("destinationPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathCommand(t *testing.T) {
	out, err := execute(t, "path", "org.foo:bar:1.0.2-SNAPSHOT", "--repo", "repo.example/maven2")
	if err != nil {
		t.Errorf("path error: %v", err)
	}
	for _, want := range []string{
		"repo.example:80/maven2",
		"/maven2/org/foo/bar/1.0.2-SNAPSHOT/maven-metadata.xml",
		"bar-1.0.2-<timestamp>-<buildNumber>.zip",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("path output missing %q:\n%s", want, out)
		}
	}

	_, err = execute(t, "path", "org.foo:bar")
	if !errors.Is(err, errors.ErrCodeMalformedCoordinate) {
		t.Errorf("error = %v, want MALFORMED_COORDINATE", err)
	}
}

func TestConfigCommands(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nested", "config.toml")

	run := func(args ...string) (string, error) {
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{"--config", cfg}, args...))
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}

	if _, err := run("config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	data, err := os.ReadFile(cfg)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "repo1.maven.org") {
		t.Errorf("config file missing default repository:\n%s", data)
	}

	if err := os.WriteFile(cfg, []byte("timeout = \"5s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run("config", "init"); err != nil {
		t.Fatalf("second config init error: %v", err)
	}
	data, _ = os.ReadFile(cfg)
	if string(data) != "timeout = \"5s\"\n" {
		t.Errorf("config init without --force overwrote the file")
	}

	out, err := run("config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(out, `timeout = "5s"`) || !strings.Contains(out, "repo1.maven.org") {
		t.Errorf("config show output:\n%s", out)
	}

	out, err = run("config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cfg {
		t.Errorf("config path = %q, want %q", out, cfg)
	}
}

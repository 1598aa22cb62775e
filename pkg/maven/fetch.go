package maven

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/modresolve/pkg/errors"
	"github.com/matzehuels/modresolve/pkg/httputil"
	"github.com/matzehuels/modresolve/pkg/observability"
)

const (
	// DefaultRequestTimeout bounds each of the (at most two) requests of a
	// resolution, body transfer included.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultMaxMetadataSize bounds the buffered metadata document.
	DefaultMaxMetadataSize = 1 << 20
)

// Transport fetches repository paths. [httputil.Client] implements it.
//
// Get returns an error only when no response was received; every status
// code is returned as a response.
type Transport interface {
	Get(ctx context.Context, host string, port int, path string) (*httputil.Response, error)
}

// Writer persists a response body to a destination path.
// [fsutil.FileWriter] implements it.
type Writer interface {
	WriteStream(dest string, r io.Reader) (int64, error)
}

// OutcomeKind classifies the terminal result of a resolution.
type OutcomeKind int

const (
	// Downloaded means the artifact was written to the destination.
	Downloaded OutcomeKind = iota + 1

	// NotFound means the repository answered 404 for the metadata document.
	// The module does not exist there; another repository may have it.
	NotFound

	// TransportFailed means the repository could not be checked: connection
	// error, timeout, unexpected status, or a failed destination write.
	TransportFailed

	// MetadataMalformed means the metadata document announced a snapshot
	// but its timestamp or build number could not be extracted.
	MetadataMalformed
)

// String returns the outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case Downloaded:
		return "Downloaded"
	case NotFound:
		return "NotFound"
	case TransportFailed:
		return "TransportFailed"
	case MetadataMalformed:
		return "MetadataMalformed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the terminal result of one resolution.
type Outcome struct {
	Kind        OutcomeKind
	ID          string             // resolution id, also logged and passed to hooks
	Coordinate  Coordinate         // parsed coordinate
	Location    RepositoryLocation // repository that produced the outcome
	Path        string             // last request path issued
	Destination string             // destination path supplied by the caller
	Bytes       int64              // bytes written, Downloaded only
	Err         error              // nil for Downloaded; an *errors.Error otherwise
}

// OK reports whether the artifact was downloaded.
func (o Outcome) OK() bool { return o.Kind == Downloaded }

// State is a step of the fetch state machine.
type State int

const (
	StateStart State = iota
	StateMetadataRequested
	StateMetadataParsed
	StateArtifactRequested
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateMetadataRequested:
		return "MetadataRequested"
	case StateMetadataParsed:
		return "MetadataParsed"
	case StateArtifactRequested:
		return "ArtifactRequested"
	case StateDone:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fetcher resolves coordinates against Maven-layout repositories and
// downloads the resulting artifacts.
//
// A Fetcher holds only configuration; each call to [Fetcher.Fetch] or
// [Fetcher.Start] owns its own state. It is safe for concurrent use.
type Fetcher struct {
	transport       Transport
	writer          Writer
	requestTimeout  time.Duration
	maxMetadataSize int64
	logger          *log.Logger
}

// Option configures a [Fetcher].
type Option func(*Fetcher)

// WithRequestTimeout sets the deadline applied to each request.
// Values <= 0 keep the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.requestTimeout = d
		}
	}
}

// WithMaxMetadataSize bounds the metadata document size in bytes.
// Values <= 0 keep the default.
func WithMaxMetadataSize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxMetadataSize = n
		}
	}
}

// WithLogger sets the logger. A nil logger keeps log.Default().
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher that issues requests through t and writes
// artifacts through w.
func NewFetcher(t Transport, w Writer, opts ...Option) *Fetcher {
	f := &Fetcher{
		transport:       t,
		writer:          w,
		requestTimeout:  DefaultRequestTimeout,
		maxMetadataSize: DefaultMaxMetadataSize,
		logger:          log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves coordinate in loc and downloads the artifact to dest.
//
// The returned error is non-nil only for input errors (MALFORMED_COORDINATE,
// INVALID_LOCATION, INVALID_DESTINATION), which are detected before any
// network activity. Every other failure is reported through the Outcome.
func (f *Fetcher) Fetch(ctx context.Context, coordinate string, loc RepositoryLocation, dest string) (Outcome, error) {
	r, err := f.prepare(coordinate, loc, dest)
	if err != nil {
		return Outcome{}, err
	}
	return r.run(ctx), nil
}

// Start is the asynchronous form of [Fetcher.Fetch]. Input errors are
// returned synchronously; otherwise the resolution runs in its own goroutine
// and exactly one Outcome is delivered on the returned channel, which is then
// closed.
func (f *Fetcher) Start(ctx context.Context, coordinate string, loc RepositoryLocation, dest string) (<-chan Outcome, error) {
	r, err := f.prepare(coordinate, loc, dest)
	if err != nil {
		return nil, err
	}
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- r.run(ctx)
	}()
	return ch, nil
}

func (f *Fetcher) prepare(coordinate string, loc RepositoryLocation, dest string) (*resolution, error) {
	target, c, err := Resolve(coordinate, loc)
	if err != nil {
		return nil, err
	}
	if dest == "" {
		return nil, errors.New(errors.ErrCodeInvalidDestination, "destination path cannot be empty")
	}
	id := uuid.NewString()
	return &resolution{
		f:      f,
		id:     id,
		coord:  c,
		loc:    loc,
		target: target,
		dest:   dest,
		log:    f.logger.With("resolution", id, "coordinate", c.String()),
	}, nil
}

// resolution is the state of one fetch. It is confined to one goroutine.
type resolution struct {
	f      *Fetcher
	id     string
	coord  Coordinate
	loc    RepositoryLocation
	target Target
	dest   string
	log    *log.Logger

	state    State
	path     string // last request path
	metadata string // buffered metadata body, snapshot branch only
	filename string // artifact filename once known
}

// step runs the current state. It returns the next state, and a terminal
// outcome exactly when the next state is StateDone.
type step func(ctx context.Context) (State, *Outcome)

func (r *resolution) run(ctx context.Context) Outcome {
	hooks := observability.Resolve()
	start := time.Now()
	hooks.OnResolveStart(ctx, r.id, r.coord.String())
	r.log.Debug("resolving", "repository", r.loc.String(), "base", r.target.BaseURI)

	var out *Outcome
	for r.state != StateDone {
		next, terminal := r.stepFor(r.state)(ctx)
		hooks.OnStateChange(ctx, r.id, r.state.String(), next.String())
		r.log.Debug("transition", "from", r.state, "to", next)
		r.state = next
		out = terminal
	}

	out.ID = r.id
	out.Coordinate = r.coord
	out.Location = r.loc
	out.Path = r.path
	out.Destination = r.dest

	elapsed := time.Since(start)
	hooks.OnResolveComplete(ctx, r.id, r.coord.String(), out.Kind.String(), elapsed)
	switch out.Kind {
	case Downloaded:
		r.log.Info("downloaded", "path", out.Path, "bytes", out.Bytes, "duration", elapsed.Round(time.Millisecond))
	case NotFound:
		r.log.Info("not found", "repository", r.loc.String())
	default:
		r.log.Warn("resolution failed", "outcome", out.Kind, "path", out.Path, "err", out.Err)
	}
	return *out
}

func (r *resolution) stepFor(s State) step {
	switch s {
	case StateStart:
		return r.classify
	case StateMetadataRequested:
		return r.fetchMetadata
	case StateMetadataParsed:
		return r.parseMetadata
	case StateArtifactRequested:
		return r.fetchArtifact
	default:
		panic(fmt.Sprintf("maven: no step for state %s", s))
	}
}

func (r *resolution) classify(context.Context) (State, *Outcome) {
	if r.coord.IsSnapshot() {
		return StateMetadataRequested, nil
	}
	r.filename = ReleaseFilename(r.coord)
	return StateArtifactRequested, nil
}

func (r *resolution) fetchMetadata(ctx context.Context) (State, *Outcome) {
	reqCtx, cancel := context.WithTimeout(ctx, r.f.requestTimeout)
	defer cancel()

	resp, err := r.get(reqCtx, r.target.MetadataPath())
	if err != nil {
		return r.transportFailed(ctx, reqCtx, err)
	}
	defer httputil.Drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return StateDone, &Outcome{
			Kind: NotFound,
			Err:  errors.New(errors.ErrCodeNotFound, "%s not found at %s", r.coord, r.loc),
		}
	default:
		return r.unexpectedStatus(resp.StatusCode)
	}

	limit := r.f.maxMetadataSize
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return r.transportFailed(ctx, reqCtx, err)
	}
	if int64(len(data)) > limit {
		return StateDone, &Outcome{
			Kind: MetadataMalformed,
			Err:  errors.New(errors.ErrCodeMetadataMalformed, "metadata exceeds %d bytes", limit),
		}
	}
	r.metadata = string(data)
	return StateMetadataParsed, nil
}

func (r *resolution) parseMetadata(context.Context) (State, *Outcome) {
	d, ok, err := ScanSnapshot(r.metadata)
	r.metadata = ""
	if err != nil {
		return StateDone, &Outcome{
			Kind: MetadataMalformed,
			Err:  errors.Wrap(errors.ErrCodeMetadataMalformed, err, "scan %s", r.path),
		}
	}
	if ok {
		r.filename = SnapshotFilename(r.coord, d)
		r.log.Debug("timestamped snapshot", "timestamp", d.Timestamp, "build", d.BuildNumber)
	} else {
		r.filename = ReleaseFilename(r.coord)
	}
	return StateArtifactRequested, nil
}

func (r *resolution) fetchArtifact(ctx context.Context) (State, *Outcome) {
	reqCtx, cancel := context.WithTimeout(ctx, r.f.requestTimeout)
	defer cancel()

	resp, err := r.get(reqCtx, r.target.FilePath(r.filename))
	if err != nil {
		return r.transportFailed(ctx, reqCtx, err)
	}
	defer httputil.Drain(resp.Body)

	// No NotFound branch here: a missing artifact is a transport failure.
	if resp.StatusCode != http.StatusOK {
		return r.unexpectedStatus(resp.StatusCode)
	}

	body := &readTracker{r: resp.Body}
	n, err := r.f.writer.WriteStream(r.dest, body)
	if err != nil {
		if body.err != nil {
			return r.transportFailed(ctx, reqCtx, body.err)
		}
		return StateDone, &Outcome{
			Kind: TransportFailed,
			Err:  errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", r.dest),
		}
	}
	return StateDone, &Outcome{Kind: Downloaded, Bytes: n}
}

func (r *resolution) get(ctx context.Context, path string) (*httputil.Response, error) {
	r.path = path
	r.log.Debug("GET", "host", r.loc.Host, "port", r.loc.Port, "path", path)
	return r.f.transport.Get(ctx, r.loc.Host, r.loc.Port, path)
}

// transportFailed classifies err. The request deadline firing while the
// caller's context is still live is a TIMEOUT.
func (r *resolution) transportFailed(ctx, reqCtx context.Context, err error) (State, *Outcome) {
	code := errors.ErrCodeTransport
	if ctx.Err() == nil && reqCtx.Err() == context.DeadlineExceeded {
		code = errors.ErrCodeTimeout
	}
	return StateDone, &Outcome{
		Kind: TransportFailed,
		Err:  errors.Wrap(code, err, "GET %s", r.path),
	}
}

func (r *resolution) unexpectedStatus(status int) (State, *Outcome) {
	return StateDone, &Outcome{
		Kind: TransportFailed,
		Err:  errors.Wrap(errors.ErrCodeTransport, &httputil.StatusError{StatusCode: status}, "GET %s", r.path),
	}
}

// readTracker remembers the first non-EOF read error so that a failed body
// transfer can be told apart from a failed destination write.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// Package httputil provides the HTTP client used to talk to Maven-layout
// repositories.
//
// # Overview
//
// [Client] issues GET requests addressed by host, port and an absolute path,
// which is how repositories are configured (see maven.RepositoryLocation).
// It returns every status code to the caller as a [Response]; only failures
// to obtain a response at all are reported as errors. Branching on status is
// the caller's job.
//
//	c := httputil.NewClient(httputil.WithUserAgent("modresolve/dev"))
//	resp, err := c.Get(ctx, "repo1.maven.org", 80, "/maven2/org/foo/bar/1.0.2/bar-1.0.2.zip")
//	if err != nil {
//	    return err // no response
//	}
//	defer resp.Body.Close()
//
// # Timeouts
//
// The client carries a generous overall timeout ([DefaultTimeout]). Tighter
// budgets are imposed per request through the context.
//
// # Hooks
//
// Every request reports OnRequest, then either OnResponse or OnError, to the
// hooks registered with the observability package.
package httputil

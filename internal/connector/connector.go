// Package connector translates canonical server-connection descriptors
// to and from each harness's native configuration shape. All knowledge
// of per-harness key names, nesting and file formats lives here, so
// adding a harness means adding one translation pair.
package connector

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	rerrors "github.com/samhoang/reins/internal/errors"
)

// Transport identifies how a harness reaches the server.
type Transport int

const (
	Stdio Transport = iota
	SSE
	HTTP
	Container
)

func (t Transport) String() string {
	switch t {
	case Stdio:
		return "stdio"
	case SSE:
		return "sse"
	case HTTP:
		return "http"
	case Container:
		return "container"
	}
	return "unknown"
}

// ParseTransport maps a transport tag to its Transport. It accepts the
// aliases harnesses use in the wild.
func ParseTransport(s string) (Transport, error) {
	switch s {
	case "stdio", "local":
		return Stdio, nil
	case "sse":
		return SSE, nil
	case "http", "remote", "streamable_http":
		return HTTP, nil
	case "container":
		return Container, nil
	}
	return 0, fmt.Errorf("unknown transport %q", s)
}

// Descriptor is the harness-independent form of a connector. Which
// fields are meaningful depends on Transport: Command/Args/Env for
// Stdio, URL/Headers for SSE and HTTP, Image/Args for Container.
// EnvVars declares environment variables the connector needs at
// install time, beyond any ${VAR} references in its fields.
type Descriptor struct {
	Name      string
	Transport Transport

	Command string
	Args    []string
	Env     map[string]string

	URL     string
	Headers map[string]string

	Image string

	EnvVars []string
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-[^}]*)?\}`)

// EnvVarNames returns every environment variable the descriptor
// references, sorted and deduplicated: the declared EnvVars plus any
// ${VAR} expansion in the command line, environment values, URL or
// headers.
func (d Descriptor) EnvVarNames() []string {
	seen := map[string]bool{}
	for _, name := range d.EnvVars {
		seen[name] = true
	}
	collect := func(s string) {
		for _, m := range envRef.FindAllStringSubmatch(s, -1) {
			seen[m[1]] = true
		}
	}
	collect(d.Command)
	collect(d.URL)
	for _, a := range d.Args {
		collect(a)
	}
	for _, v := range d.Env {
		collect(v)
	}
	for _, v := range d.Headers {
		collect(v)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckEnv verifies that every referenced environment variable is set
// in the current environment. It returns an EnvVarError listing all
// missing names, so the caller can report them in one shot.
func (d Descriptor) CheckEnv() error {
	var missing []string
	for _, name := range d.EnvVarNames() {
		if _, ok := os.LookupEnv(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return rerrors.NewEnvVarError(d.Name, missing)
	}
	return nil
}

// Package install places shareable components (skills, agents,
// commands, connectors) into profile storage and, when the target
// profile is live, into the harness config dir. Unlike a profile
// restore, installation merges: files already present and not owned by
// the component are never touched.
package install

import (
	"fmt"
	"strings"

	"github.com/samhoang/reins/internal/connector"
	rerrors "github.com/samhoang/reins/internal/errors"
	"github.com/samhoang/reins/internal/harness"
)

// Component is one installable unit. Files maps paths relative to the
// component root to their content; a Flat resource has exactly one
// file, a Nested one has at least its entry file. Connector components
// carry a descriptor instead of files.
type Component struct {
	Kind      harness.ResourceKind
	Name      string
	Source    string
	Files     map[string][]byte
	Connector *connector.Descriptor
}

// SanitizeName turns a free-form component name into a slug usable as
// a file or directory name: lowercased, word separators collapsed to
// single hyphens, everything else dropped.
func SanitizeName(raw string) (string, error) {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ', r == '_', r == '-', r == '.', r == '/':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		return "", fmt.Errorf("%w: %q", rerrors.ErrInvalidComponentName, raw)
	}
	return name, nil
}

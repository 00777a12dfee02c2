package profile

import (
	"fmt"

	rerrors "github.com/samhoang/reins/internal/errors"
)

// ValidateName checks a profile name. Names are 1 to 64 characters of
// lowercase letters, digits and hyphens, with no leading, trailing or
// consecutive hyphens. The rules keep names safe as directory names and
// stable across filesystems.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", rerrors.ErrInvalidProfileName)
	}
	if len(name) > 64 {
		return fmt.Errorf("%w: %q exceeds 64 characters", rerrors.ErrInvalidProfileName, name)
	}
	prev := byte(0)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-':
			if i == 0 || i == len(name)-1 {
				return fmt.Errorf("%w: %q has a leading or trailing hyphen", rerrors.ErrInvalidProfileName, name)
			}
			if prev == '-' {
				return fmt.Errorf("%w: %q has consecutive hyphens", rerrors.ErrInvalidProfileName, name)
			}
		default:
			return fmt.Errorf("%w: %q contains %q", rerrors.ErrInvalidProfileName, name, string(c))
		}
		prev = c
	}
	return nil
}

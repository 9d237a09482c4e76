package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var validLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// ValidateOwnerName checks that an owner name is a well-formed FQDN
// safe to embed in registry resource paths. Errors wrap ErrFormat.
func ValidateOwnerName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: owner name cannot be empty", ErrFormat)
	}
	if name == "." {
		return fmt.Errorf("%w: cannot provision the root zone", ErrFormat)
	}
	if !strings.HasSuffix(name, ".") {
		return fmt.Errorf("%w: owner name must end with a dot (FQDN)", ErrFormat)
	}
	if len(name) > 254 {
		return fmt.Errorf("%w: owner name exceeds 253 characters", ErrFormat)
	}

	// Trailing dot already checked, so the final split element is empty.
	labels := strings.Split(strings.TrimSuffix(name, "."), ".")
	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("%w: owner name contains empty label", ErrFormat)
		}
		if len(label) > 63 {
			return fmt.Errorf("%w: label %q exceeds 63 characters", ErrFormat, label)
		}
		if !validLabelRegex.MatchString(label) {
			return fmt.Errorf("%w: label %q contains invalid characters or format", ErrFormat, label)
		}
	}
	return nil
}

package drive

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mmcdole/drivestorage/internal/domain"
)

var errPathSeparator = errors.New("must not contain a path separator")

var nameRules = []validation.Rule{
	validation.Required,
	validation.Length(1, 255),
	validation.By(func(value interface{}) error {
		if strings.ContainsAny(value.(string), `/\`) {
			return errPathSeparator
		}
		return nil
	}),
}

// cleanName trims name and checks it is usable as a file or folder name
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, nameRules...); err != nil {
		return "", fmt.Errorf("%w: %q %v", domain.ErrInvalidName, name, err)
	}
	return name, nil
}

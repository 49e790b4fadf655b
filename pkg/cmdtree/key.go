package cmdtree

import (
	"fmt"
	"strings"
	"unicode"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
)

// ParseCommandKey splits a command key on its last space into the parent
// path and the command's own name. The root key "" yields ("", "").
func ParseCommandKey(key string) (parent, self string) {
	i := strings.LastIndexByte(key, ' ')
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}

// JoinCommandKey appends a segment to a parent key.
func JoinCommandKey(parent, self string) string {
	if parent == "" {
		return self
	}
	return parent + " " + self
}

// ValidateCommandKey checks that key is a sequence of non-empty segments
// separated by single spaces. The empty root key is valid.
func ValidateCommandKey(key string) error {
	if key == "" {
		return nil
	}
	for _, segment := range strings.Split(key, " ") {
		if segment == "" {
			return invalidKey(key, "it has an empty segment (leading, trailing or doubled space)")
		}
		if strings.IndexFunc(segment, unicode.IsSpace) >= 0 {
			return invalidKey(key, "segments may only be separated by single spaces")
		}
		if strings.HasPrefix(segment, "-") {
			return invalidKey(key, "segments cannot start with '-'")
		}
	}
	return nil
}

func invalidKey(key, why string) error {
	return cterrors.WrapWithCode(ErrInvalidKey, cterrors.ErrRegistry,
		fmt.Sprintf("Command key %q is invalid: %s", key, why),
		`Use space-separated command names, e.g. "project echo"`)
}

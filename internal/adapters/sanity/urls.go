package sanity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Lafiorentina/siteweb/internal/domain"
)

var ErrInvalidReference = errors.New("sanity: invalid asset reference")

var dimensions = regexp.MustCompile(`^\d+x\d+$`)

// URLBuilder maps asset ids onto the asset CDN. It holds no state beyond its configuration,
// so the same reference always yields the same URL.
type URLBuilder struct {
	ProjectID string
	Dataset   string
	BaseURL   string // defaults to https://cdn.sanity.io
}

func (b URLBuilder) base() string {
	if b.BaseURL != "" {
		return strings.TrimRight(b.BaseURL, "/")
	}
	return "https://cdn.sanity.io"
}

// URLFor resolves image-<id>-<W>x<H>-<ext> and file-<id>-<ext> references.
// A reference without an id falls back to the URL the store already projected.
func (b URLBuilder) URLFor(ref domain.AssetRef) (string, error) {
	key := ref.Key()
	if key == "" {
		if ref.URL != "" {
			return ref.URL, nil
		}
		return "", ErrInvalidReference
	}

	switch {
	case strings.HasPrefix(key, "image-"):
		parts := strings.Split(strings.TrimPrefix(key, "image-"), "-")
		if len(parts) < 3 {
			return "", fmt.Errorf("%w: %q", ErrInvalidReference, key)
		}
		ext := parts[len(parts)-1]
		dims := parts[len(parts)-2]
		id := strings.Join(parts[:len(parts)-2], "-")
		if id == "" || ext == "" || !dimensions.MatchString(dims) {
			return "", fmt.Errorf("%w: %q", ErrInvalidReference, key)
		}
		return fmt.Sprintf("%s/images/%s/%s/%s-%s.%s", b.base(), b.ProjectID, b.Dataset, id, dims, ext), nil

	case strings.HasPrefix(key, "file-"):
		parts := strings.Split(strings.TrimPrefix(key, "file-"), "-")
		if len(parts) < 2 {
			return "", fmt.Errorf("%w: %q", ErrInvalidReference, key)
		}
		ext := parts[len(parts)-1]
		id := strings.Join(parts[:len(parts)-1], "-")
		if id == "" || ext == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidReference, key)
		}
		return fmt.Sprintf("%s/files/%s/%s/%s.%s", b.base(), b.ProjectID, b.Dataset, id, ext), nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidReference, key)
}

package artifacts

import (
	"errors"
	"fmt"
	"strings"
)

const (
	SCHEME_FILE   = "file"
	SCHEME_HTTP   = "http"
	SCHEME_HTTPS  = "https"
	SCHEME_S3     = "s3"
	SCHEME_VALKEY = "valkey"
)

var ErrUnsupportedScheme = errors.New("unsupported artifact location scheme")

// Location is a parsed artifact address. Bucket is only set for s3; Path is
// the file path, URL, object key or valkey key.
type Location struct {
	Scheme string
	Bucket string
	Path   string
	Raw    string
}

func ParseLocation(raw string) (Location, error) {
	loc := Location{Raw: raw}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		if raw == "" {
			return loc, errors.New("location is empty")
		}
		loc.Scheme, loc.Path = SCHEME_FILE, raw
		return loc, nil
	}

	loc.Scheme = strings.ToLower(scheme)
	switch loc.Scheme {
	case SCHEME_FILE, SCHEME_VALKEY:
		loc.Path = rest
	case SCHEME_HTTP, SCHEME_HTTPS:
		loc.Path = raw
	case SCHEME_S3:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return loc, fmt.Errorf("s3 location %q needs a bucket and a key", raw)
		}
		loc.Bucket, loc.Path = bucket, key
	default:
		return loc, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}

	if loc.Path == "" {
		return loc, fmt.Errorf("location %q is empty", raw)
	}
	return loc, nil
}

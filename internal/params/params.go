// Package params maps incoming HTTP request headers onto GetObject parameters.
//
// The set of recognized headers is closed and defined by a single table, so the
// accepted headers and the date parsing policy can be audited in one place.
package params

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/relvacode/iso8601"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/errors"
)

// Param names a GetObject parameter that can be derived from a request header.
type Param string

// Recognized GetObject parameters.
const (
	Range             Param = "Range"
	IfMatch           Param = "IfMatch"
	IfNoneMatch       Param = "IfNoneMatch"
	IfModifiedSince   Param = "IfModifiedSince"
	IfUnmodifiedSince Param = "IfUnmodifiedSince"
)

// mapping binds one lowercase request header to the parameter it sets.
type mapping struct {
	header string
	param  Param
	apply  func(in *s3.GetObjectInput, value string) error
}

var mappings = [...]mapping{
	{header: "range", param: Range, apply: func(in *s3.GetObjectInput, v string) error {
		in.Range = aws.String(v)
		return nil
	}},
	{header: "if-match", param: IfMatch, apply: func(in *s3.GetObjectInput, v string) error {
		in.IfMatch = aws.String(v)
		return nil
	}},
	{header: "if-none-match", param: IfNoneMatch, apply: func(in *s3.GetObjectInput, v string) error {
		in.IfNoneMatch = aws.String(v)
		return nil
	}},
	{header: "if-modified-since", param: IfModifiedSince, apply: func(in *s3.GetObjectInput, v string) error {
		t, err := ParseDate(v)
		if err != nil {
			return err
		}
		in.IfModifiedSince = &t
		return nil
	}},
	{header: "if-unmodified-since", param: IfUnmodifiedSince, apply: func(in *s3.GetObjectInput, v string) error {
		t, err := ParseDate(v)
		if err != nil {
			return err
		}
		in.IfUnmodifiedSince = &t
		return nil
	}},
}

func lookup(header string) (mapping, bool) {
	for _, m := range mappings {
		if m.header == header {
			return m, true
		}
	}
	return mapping{}, false
}

// Extract builds a partial GetObject input from request headers.
// Only Range, IfMatch, IfNoneMatch, IfModifiedSince and IfUnmodifiedSince are ever set;
// unrecognized headers are ignored. For multi-valued headers the last value wins.
func Extract(h http.Header) (*s3.GetObjectInput, error) {
	in := &s3.GetObjectInput{}
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		m, ok := lookup(strings.ToLower(key))
		if !ok {
			continue
		}
		if err := m.apply(in, values[len(values)-1]); err != nil {
			return nil, errors.NewError("extractGetArgs", err).
				WithMessage(fmt.Sprintf("header %s for %s", m.header, m.param))
		}
	}
	return in, nil
}

// Merge copies the recognized parameters that are set on src onto dst.
// Bucket, Key and every other field of dst are left untouched.
func Merge(dst, src *s3.GetObjectInput) {
	if dst == nil || src == nil {
		return
	}
	if src.Range != nil {
		dst.Range = src.Range
	}
	if src.IfMatch != nil {
		dst.IfMatch = src.IfMatch
	}
	if src.IfNoneMatch != nil {
		dst.IfNoneMatch = src.IfNoneMatch
	}
	if src.IfModifiedSince != nil {
		dst.IfModifiedSince = src.IfModifiedSince
	}
	if src.IfUnmodifiedSince != nil {
		dst.IfUnmodifiedSince = src.IfUnmodifiedSince
	}
}

// ParseDate parses a date-valued header. HTTP-date formats (RFC 1123, RFC 850,
// ANSI C) are tried first, then ISO-8601. The result is in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := http.ParseTime(value); err == nil {
		return t.UTC(), nil
	}
	t, err := iso8601.Parse([]byte(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errors.ErrInvalidDate, value)
	}
	return t.UTC(), nil
}

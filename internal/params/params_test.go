package params

import (
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/errors"
)

var sampleDate = time.Date(2022, 1, 1, 0, 0, 0, 130*int(time.Millisecond), time.UTC)

func header(pairs ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(pairs); i += 2 {
		// raw assignment keeps the casing exactly as given
		h[pairs[i]] = append(h[pairs[i]], pairs[i+1])
	}
	return h
}

var (
	standardHeaders = []string{
		"content-type", "A",
		"Accept-Encoding", "gzip, deflate, br",
		"Cache-Control", "no-cache",
	}
	providerHeaders = []string{
		"x-amz-test", "value",
		"X-Amz-SHA", "value",
		"server", "AmazonS3",
	}
	argumentHeaders = []string{
		"if-none-match", "value",
		"if-modified-since", "2022-01-01T00:00:00.130Z",
		"if-unmodified-since", "2022-01-01T00:00:00.130Z",
	}
)

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input http.Header
		check func(t *testing.T, in *s3.GetObjectInput)
	}{
		{
			name:  "empty",
			input: http.Header{},
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, &s3.GetObjectInput{}, in)
			},
		},
		{
			name:  "nil",
			input: nil,
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, &s3.GetObjectInput{}, in)
			},
		},
		{
			name:  "non-arguments",
			input: header(standardHeaders...),
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, &s3.GetObjectInput{}, in)
			},
		},
		{
			name:  "only arguments",
			input: header(argumentHeaders...),
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, "value", aws.ToString(in.IfNoneMatch))
				require.NotNil(t, in.IfModifiedSince)
				require.NotNil(t, in.IfUnmodifiedSince)
				assert.True(t, sampleDate.Equal(*in.IfModifiedSince))
				assert.True(t, sampleDate.Equal(*in.IfUnmodifiedSince))
				assert.Nil(t, in.Range)
				assert.Nil(t, in.IfMatch)
			},
		},
		{
			name:  "mixed",
			input: header(concat(argumentHeaders, standardHeaders, providerHeaders)...),
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, "value", aws.ToString(in.IfNoneMatch))
				require.NotNil(t, in.IfModifiedSince)
				assert.True(t, sampleDate.Equal(*in.IfModifiedSince))
				assert.Nil(t, in.Bucket)
				assert.Nil(t, in.Key)
				assert.Nil(t, in.Range)
			},
		},
		{
			name:  "canonical keys from net/http",
			input: http.Header{"Range": {"bytes=0-4"}, "If-Match": {`"etag"`}},
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, "bytes=0-4", aws.ToString(in.Range))
				assert.Equal(t, `"etag"`, aws.ToString(in.IfMatch))
			},
		},
		{
			name:  "non-date values are not coerced",
			input: header("if-none-match", "abc"),
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, &s3.GetObjectInput{IfNoneMatch: aws.String("abc")}, in)
			},
		},
		{
			name:  "last value wins",
			input: http.Header{"Range": {"bytes=0-1", "bytes=2-3"}},
			check: func(t *testing.T, in *s3.GetObjectInput) {
				assert.Equal(t, "bytes=2-3", aws.ToString(in.Range))
			},
		},
		{
			name:  "http date",
			input: http.Header{"If-Modified-Since": {"Sat, 01 Jan 2022 00:00:00 GMT"}},
			check: func(t *testing.T, in *s3.GetObjectInput) {
				require.NotNil(t, in.IfModifiedSince)
				assert.True(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).Equal(*in.IfModifiedSince))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Extract(tt.input)
			require.NoError(t, err)
			require.NotNil(t, in)
			tt.check(t, in)
		})
	}
}

func TestExtract_InvalidDate(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "if-modified-since", header: "If-Modified-Since"},
		{name: "if-unmodified-since", header: "if-unmodified-since"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Extract(http.Header{tt.header: {"not a date"}})
			require.Error(t, err)
			assert.Nil(t, in)
			assert.True(t, errors.IsInvalidDate(err))
			assert.Contains(t, err.Error(), "not a date")
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "iso8601 with millis", value: "2022-01-01T00:00:00.130Z", want: sampleDate},
		{name: "iso8601 with offset", value: "2022-01-01T02:00:00+02:00", want: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc1123", value: "Sat, 01 Jan 2022 00:00:00 GMT", want: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc850", value: "Saturday, 01-Jan-22 00:00:00 GMT", want: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "ansi c", value: "Sat Jan  1 00:00:00 2022", want: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding whitespace", value: "  2022-01-01T00:00:00.130Z ", want: sampleDate},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestMerge(t *testing.T) {
	dst := &s3.GetObjectInput{
		Bucket:  aws.String("bucket"),
		Key:     aws.String("file.txt"),
		IfMatch: aws.String("keep"),
	}
	src := &s3.GetObjectInput{
		Range:           aws.String("bytes=0-9"),
		IfModifiedSince: &sampleDate,
		Key:             aws.String("ignored"),
	}

	Merge(dst, src)

	assert.Equal(t, "bucket", aws.ToString(dst.Bucket))
	assert.Equal(t, "file.txt", aws.ToString(dst.Key))
	assert.Equal(t, "keep", aws.ToString(dst.IfMatch))
	assert.Equal(t, "bytes=0-9", aws.ToString(dst.Range))
	assert.Equal(t, &sampleDate, dst.IfModifiedSince)

	assert.NotPanics(t, func() { Merge(nil, src) })
	assert.NotPanics(t, func() { Merge(dst, nil) })
}

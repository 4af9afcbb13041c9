// Package get performs a single S3 GetObject call and normalizes the outcome.
//
// A successful call and a call that received a non-2xx response are both
// returned as a Response value. Only failures that never produced an HTTP
// response (network errors, missing credentials, bad configuration) are
// returned as errors.
package get

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/headers"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3get/s3types"
)

const opName = "get"

// Getter fetches objects through a GetObjectAPI.
type Getter struct {
	s3Client s3api.GetObjectAPI
}

// New creates a new Getter instance.
func New(s3Client s3api.GetObjectAPI) *Getter {
	return &Getter{
		s3Client: s3Client,
	}
}

// Get issues exactly one GetObject call and returns the normalized response.
// The input is passed to the API unchanged.
func (g *Getter) Get(
	ctx context.Context,
	input *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3types.Response, error) {
	if err := validation.ValidateGetInput(input); err != nil {
		return nil, err
	}
	if g.s3Client == nil {
		return nil, errors.NewError(opName, errors.ErrInvalidInput).WithMessage("client cannot be nil")
	}

	output, err := g.s3Client.GetObject(ctx, input, optFns...)
	if err != nil {
		switch f := classify(err).(type) {
		case recoverableFailure:
			return fromFailure(f), nil
		default:
			return nil, errors.NewNoResponseError(opName, deref(input.Bucket), deref(input.Key), err)
		}
	}

	return fromOutput(output), nil
}

// failure is the outcome of a GetObject call that returned an error.
// It is either a recoverableFailure or an unrecoverableFailure.
type failure interface {
	isFailure()
}

// recoverableFailure is an error that carries the HTTP response S3 sent back.
type recoverableFailure struct {
	response *smithyhttp.Response
	metadata s3types.Metadata
	err      error
}

// unrecoverableFailure is an error for which no HTTP response was received.
type unrecoverableFailure struct {
	err error
}

func (recoverableFailure) isFailure()   {}
func (unrecoverableFailure) isFailure() {}

// httpResponder is implemented by the SDK response errors in the error chain.
type httpResponder interface {
	HTTPResponse() *smithyhttp.Response
}

type requestIDer interface {
	ServiceRequestID() string
}

type hostIDer interface {
	ServiceHostID() string
}

// classify decides whether err carries an HTTP response S3 actually sent.
// The SDK also attaches a zero-status response to errors raised before
// anything was received, such as a refused connection.
func classify(err error) failure {
	var sendErr *smithyhttp.RequestSendError
	if stderrors.As(err, &sendErr) {
		return unrecoverableFailure{err: err}
	}
	var responder httpResponder
	if !stderrors.As(err, &responder) {
		return unrecoverableFailure{err: err}
	}
	resp := responder.HTTPResponse()
	if resp == nil || resp.Response == nil || resp.StatusCode < 100 {
		return unrecoverableFailure{err: err}
	}

	md := s3types.Metadata{HTTPStatusCode: resp.StatusCode}
	var rid requestIDer
	if stderrors.As(err, &rid) {
		md.RequestID = rid.ServiceRequestID()
	}
	var hid hostIDer
	if stderrors.As(err, &hid) {
		md.ExtendedRequestID = hid.ServiceHostID()
	}
	if md.RequestID == "" {
		md.RequestID = resp.Header.Get("X-Amz-Request-Id")
	}
	if md.ExtendedRequestID == "" {
		md.ExtendedRequestID = resp.Header.Get("X-Amz-Id-2")
	}

	return recoverableFailure{response: resp, metadata: md, err: err}
}

// fromFailure builds the response for a received non-2xx answer. The SDK has
// already consumed the body to decode the XML error, so it is not read again.
func fromFailure(f recoverableFailure) *s3types.Response {
	generic, provider := headers.Split(headers.Flatten(f.response.Header))
	return &s3types.Response{
		Body:          http.NoBody,
		Headers:       generic,
		S3Headers:     provider,
		StatusCode:    f.response.StatusCode,
		StatusMessage: statusMessage(f.response.Response),
		Metadata:      f.metadata,
		Error:         f.err,
	}
}

// fromOutput builds the response for a successful call. Status and headers
// come from the raw HTTP response when the SDK recorded one.
func fromOutput(output *s3.GetObjectOutput) *s3types.Response {
	if output == nil {
		output = &s3.GetObjectOutput{}
	}

	body := output.Body
	if body == nil {
		body = http.NoBody
	}

	resp := &s3types.Response{
		Body:     body,
		Metadata: outputMetadata(output.ResultMetadata),
	}

	var raw http.Header
	if r := rawResponse(output.ResultMetadata); r != nil {
		resp.StatusCode = r.StatusCode
		resp.StatusMessage = statusMessage(r.Response)
		raw = r.Header
	}

	var flat s3types.Headers
	if raw != nil {
		flat = headers.Flatten(raw)
	} else {
		flat = headers.FromOutput(output)
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
		if output.ContentRange != nil {
			resp.StatusCode = http.StatusPartialContent
		}
		resp.StatusMessage = http.StatusText(resp.StatusCode)
	}
	if resp.Metadata.HTTPStatusCode == 0 {
		resp.Metadata.HTTPStatusCode = resp.StatusCode
	}

	resp.Headers, resp.S3Headers = headers.Split(flat)
	return resp
}

func rawResponse(md middleware.Metadata) *smithyhttp.Response {
	r, ok := awsmiddleware.GetRawResponse(md).(*smithyhttp.Response)
	if !ok || r == nil || r.Response == nil {
		return nil
	}
	return r
}

func outputMetadata(md middleware.Metadata) s3types.Metadata {
	var out s3types.Metadata
	if r := rawResponse(md); r != nil {
		out.HTTPStatusCode = r.StatusCode
	}
	if id, ok := awsmiddleware.GetRequestIDMetadata(md); ok {
		out.RequestID = id
	}
	if id, ok := s3.GetHostIDMetadata(md); ok {
		out.ExtendedRequestID = id
	}
	if results, ok := retry.GetAttemptResults(md); ok {
		out.Attempts = len(results.Results)
	}
	return out
}

// statusMessage returns the reason phrase of a response, e.g. "Not Found".
func statusMessage(r *http.Response) string {
	if r == nil {
		return ""
	}
	msg := strings.TrimSpace(strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode)))
	if msg == "" {
		msg = http.StatusText(r.StatusCode)
	}
	return msg
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Package s3get fetches objects from Amazon S3 and reshapes the result so it
// can be streamed straight through a Go HTTP server.
//
// It wraps the AWS SDK v2 GetObject call and does three things:
//   - translates incoming conditional request headers into GetObject parameters
//   - normalizes success and non-2xx answers into a single Response value
//   - splits response headers into generic and provider-specific (x-amz-*) sets
//
// Example usage:
//
//	client, err := s3get.New(s3get.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//
//	args, err := s3get.ExtractGetArgs(r.Header)
//	if err != nil {
//	    http.Error(w, err.Error(), http.StatusBadRequest)
//	    return
//	}
//	args.Bucket = aws.String("my-bucket")
//	args.Key = aws.String("index.html")
//
//	resp, err := client.Get(ctx, args)
//	if err != nil {
//	    // no HTTP response was received
//	    return err
//	}
//	defer resp.Body.Close()
//
//	for k, v := range resp.Headers {
//	    w.Header().Set(k, v)
//	}
//	w.WriteHeader(resp.StatusCode)
//	io.Copy(w, resp.Body)
//
// The httpserve package packages this flow as an http.Handler.
package s3get

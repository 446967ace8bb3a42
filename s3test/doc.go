// Package s3test provides an in-memory S3-compatible server for testing.
//
// The server stores objects in memory, speaks the S3 XML wire format, and
// verifies AWS Signature V4 authorization headers against a configured set
// of access keys. It covers the subset of the S3 API that the client in the
// parent package uses: GET and PUT on objects, and bucket listing with
// prefix, marker, max-keys and delimiter.
//
// # Usage
//
//	srv := s3test.New(s3test.Config{
//	    Region:  "us-east-1",
//	    Buckets: []string{"my-bucket"},
//	    Keys:    map[string]string{"AKIATEST": "secret"},
//	})
//	ts := httptest.NewServer(srv.Handler())
//	defer ts.Close()
//
// Point a client at ts.URL as the endpoint override and exercise it against
// real signature verification without network access to S3.
package s3test

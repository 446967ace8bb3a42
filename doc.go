// Package s3async is an asynchronous client for S3-compatible object
// storage. Each operation returns immediately with a write-once Future;
// request canonicalization, AWS Signature Version 4 signing and the HTTP
// exchange run on a background goroutine.
//
// # Key Components
//
//   - Client: holds credentials, region and bucket; exposes Get, Put and List
//   - Future: write-once result handle with deadline-bounded Wait and polling
//   - ServiceError: decoded S3 XML error body (code, message, request id)
//
// The signing pipeline is a linear chain of pure stages — canonicalize,
// sign, build, dispatch, parse — each independently testable and safe to
// run concurrently from many requests.
//
// # Example Usage
//
//	client, err := s3async.New(s3async.Config{
//	    AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//	    SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	    Region:    "us-west-2",
//	    Bucket:    "my-bucket",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	future := client.Get(ctx, "logs/2016/0001.gz")
//	resp, err := future.WaitTimeout(5 * time.Second)
//
// Known limitation: there is no mid-flight cancellation. A future that
// times out or is abandoned leaves the underlying exchange running to
// completion; its result is discarded.
//
// See the s3test package for an in-memory S3-compatible server used in
// tests, and cmd/s3async-cli for a command-line client.
package s3async

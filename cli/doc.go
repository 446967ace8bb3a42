// Package cli provides shared building blocks for the s3async command
// line tool: profile management, output formatting and file transfer
// helpers built on the asynchronous client.
//
// Profiles live in ~/.s3async/config.yaml and hold per-server
// credentials and defaults:
//
//	profiles:
//	  - name: prod
//	    region: us-east-1
//	    bucket: my-data
//	    access_key: AKIA...
//	    secret_key: ...
//	    default: true
//
// Environment variables S3ASYNC_ACCESS_KEY, S3ASYNC_SECRET_KEY,
// S3ASYNC_REGION, S3ASYNC_BUCKET and S3ASYNC_ENDPOINT override profile
// values, and explicit flags override both.
package cli

// Package main (cmd/httpserver) runs the resource storage service.
//
// The server exposes the resource API (upload, batch upload, download,
// delete) over HTTP, keeping metadata in an embedded BoltDB database and
// blob bytes in a pluggable backend selected at startup by location URI:
// local filesystem (file://) or S3-compatible object storage (s3://).
//
// Configuration is handled through command-line flags, with separate
// settings for the listen addresses, the storage location, the metadata
// database path, logging, and performance tuning.
//
// The server implements graceful shutdown on receiving termination signals
// (SIGINT/SIGTERM) and supports health checks, metrics collection, and
// optional profiling endpoints.
//
// Example usage with local storage:
//
//	resource-service --listen-addr 0.0.0.0:8080 \
//	  --storage-location file:///var/lib/resources \
//	  --db-path /var/lib/resources.db
//
// Example usage with an S3-compatible endpoint:
//
//	resource-service --listen-addr 0.0.0.0:8080 \
//	  --storage-location "s3://?region=eu-central-1" \
//	  --db-path /var/lib/resources.db
package main

// Package uploader sends schedule records to the remote storage API.
//
// Records are posted in batches with the API key in an x-api-key header.
// Server errors (5xx) and network failures are retried with exponential
// backoff; client errors fail immediately with an UploadError carrying the
// status code and response body. A dry-run Sink prints what would be
// uploaded without touching the network.
package uploader

package runninghub

import "errors"

// Failure classes for the remote generation path. The orchestrator converts
// all of them into a local fallback; they are never surfaced to callers.
var (
	// ErrUpload marks reference-image upload failures, including local
	// pre-checks that reject a file before any network call.
	ErrUpload = errors.New("runninghub: upload failed")
	// ErrProtocol marks application-level failures: a non-zero API code,
	// malformed JSON, or an unexpected status string.
	ErrProtocol = errors.New("runninghub: protocol error")
	// ErrTimeout marks an exhausted poll budget or a call past its deadline.
	ErrTimeout = errors.New("runninghub: timed out")
	// ErrDownload marks artifact download failures after a successful job.
	ErrDownload = errors.New("runninghub: download failed")
)

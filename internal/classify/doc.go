// Package classify builds classification requests, talks to the remote
// classification service, and scores the results.
//
// The remote service is reached through an OpenAI-compatible chat
// completion API. The service is asked for strict JSON keyed by file
// name; the response is located between the first '{' and the last '}'
// of the returned text and parsed without repair. Confidence is a
// locally computed proxy derived from the quality of the returned
// reason text, because the service is not required to emit a numeric
// confidence of its own.
package classify

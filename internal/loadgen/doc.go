// Package loadgen drives batches of concurrent GET requests against a single
// endpoint and folds every outcome into a Statistics aggregate.
//
// A run is strictly sequential at the batch level: every request of batch N
// resolves (response, error or timeout) before the inter-batch delay starts,
// and no request of batch N+1 is issued before that delay has elapsed.
package loadgen

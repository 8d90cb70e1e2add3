// Package selector decides at startup which state backend the process
// uses: the Dapr sidecar when it becomes healthy within the probe
// deadline, the in-memory store otherwise. The decision is made once
// and is final; a remote backend that later becomes unreachable fails
// every call instead of silently reverting to memory.
package selector

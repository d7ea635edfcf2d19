// Package host feeds frames to the signal pipeline and delivers its reports.
//
// The pipeline itself is synchronous and keeps no queue. Runner supplies the
// backpressure: a producer goroutine pulls frames from a Source and publishes
// them into a single-slot Mailbox, overwriting any frame the consumer has not
// picked up yet. The consumer always works on the latest frame, and the number
// of overwritten frames is reported as Stats.Dropped.
//
// Reports go to a Sink. LogSink writes them to a zerolog logger, and Hub
// broadcasts them as JSON to WebSocket viewers.
package host

// Package interpreter serialises calls into the rotation engine.
//
// An Interpreter owns one execution lock and one worker goroutine. Calls
// arrive in two modes:
//
//   - Apply runs the call on the caller's goroutine and returns its result.
//   - Queue appends the call to a FIFO that the worker drains in order.
//
// Both modes take the same lock, so no two calls ever run at once. Every
// finished call produces a Result that is logged, counted, traced and
// handed to the registered observers. Errors and panics raised by a call
// end up in its Result and never stop the worker.
package interpreter

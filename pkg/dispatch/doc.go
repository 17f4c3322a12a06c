// Package dispatch runs power supply commands in the two operating modes of
// psuctl.
//
// Interactive mode evaluates one operator line at a time with Execute, or
// loops over a LineReader with RunInteractive. Failures are printed and the
// loop keeps going; only quit, end of input or an interrupt end it.
//
// Batch mode takes a fully resolved Request and runs it as a fixed pipeline:
//
//	connect -> current -> voltage -> output -> measure -> local -> close
//
// The first failing step halts the pipeline. The session is closed on every
// path and the Report names the step that failed.
package dispatch

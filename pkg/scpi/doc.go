// Package scpi drives a bench power supply with the fixed SCPI subset it
// understands: VOLT, CURR, OUTP, MEAS, SYST:REMOTE/LOCAL and *IDN?.
//
// A PowerSupply owns at most one session.Session. Every method checks for an
// open session first and fails with fault.ErrNotConnected without touching
// the transport otherwise. Argument validation also happens before any I/O,
// so a rejected value never reaches the instrument.
package scpi

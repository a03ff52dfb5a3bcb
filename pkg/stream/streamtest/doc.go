// Package streamtest provides helpers for testing code built on package stream:
// a Recorder subscriber that captures every event, and a TestScheduler with a
// manually advanced virtual clock.
package streamtest

// Package render draws PNG charts of a simulation snapshot with gonum/plot.
//
// Three charts are produced:
//   - field.png: final field strength per cell
//   - samples.png: the (time, average strength) series
//   - velocity.png: histogram of final particle velocities
package render

// Package render draws simulation results as images: a concentration chart
// and a small badge showing the current estimated level.
package render

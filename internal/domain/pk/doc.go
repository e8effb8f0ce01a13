// Package pk implements the pharmacokinetic model: potency and unit
// conversion, bioavailability by route, single-dose concentration curves,
// superposition onto a time grid, and lab-based calibration.
//
// Everything here is pure. Each call receives a full snapshot of its inputs
// and returns freshly allocated results.
package pk

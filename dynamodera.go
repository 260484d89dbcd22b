// Package dynamodera runs dynamic mode decomposition analyses of ERA5
// atmospheric reanalysis fields: slice and resample a gridded dataset,
// flatten it to a space-by-time state matrix, fit a (optionally
// delay-embedded and eigenvalue-optimized) decomposition, reconstruct and
// forecast the field, and report reconstruction error metrics with plot,
// array and metadata artifacts keyed by a run timestamp.
package dynamodera

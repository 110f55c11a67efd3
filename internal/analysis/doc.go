// Package analysis characterises recorded simulation series.
//
//   - [PowerSpectrum]: magnitude spectrum of a detrended series
//   - [DominantFrequency]: strongest non-DC frequency, e.g. the sloshing rate
//     of kinetic energy as particles bounce between walls
//   - [Summarize]: mean, spread and extrema of a series
//
// # Example
//
//	freq, power := analysis.DominantFrequency(result.Series["kinetic_energy"], 60)
package analysis

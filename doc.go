// Package rsutax computes the French tax due on the sale of vested RSU shares.
//
// Broker records are USD lots. The package turns them into EUR amounts and a
// yearly tax estimate in four stateless steps:
//   - ExchangeRates: an immutable EUR/USD table built once from the Banque de
//     France series, closed days resolved to the next published rate.
//   - Normalize: merges the per-lot sale records that describe the same
//     economic transaction, refusing lots that disagree on price.
//   - Process: converts a transaction to EUR, splits the acquisition gain from
//     the capital gain, offsets capital losses and computes the holding-period
//     relief.
//   - Aggregate: sums processed transactions and applies a TaxPolicy (the
//     current flat regime or the historical 300k EUR threshold regime).
//
// Parsing broker exports, downloading rates and rendering reports live in the
// schwab, bdf and renderer packages; this package performs no I/O.
package rsutax

// SPDX-License-Identifier: EPL-2.0

// Package usage prices analysis requests and keeps a bounded log of them.
//
// Costs follow the published per-million-token prices of the analysis
// model converted to New Taiwan dollars at a fixed rate. The log lives in a
// SQLite database and keeps the newest DefaultKeep records.
package usage

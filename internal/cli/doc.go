// Package cli implements the command-line interface for the scrape driver.
//
// The cli package provides the Cobra-based CLI that sequences fetching,
// normalization and the document write across all configured sources,
// continuing past individual source failures and reporting which sources
// failed. Output summaries are available as text or JSON.
package cli

// Package scraper provides HTTP fetching and HTML/JSON parsing for municipal
// drop-in activity schedules.
//
// Each configured source is described by a Source descriptor whose Format
// selects the adapter used to extract records: the paginated City of Ottawa
// facility listing, a single HTML page of activity blocks and tables, or a
// JSON feed with known keys. HTML tables are parsed positionally where the
// layout matches a fixed pattern and handed to the text interpreter
// otherwise, with interpreter results cached across runs.
package scraper

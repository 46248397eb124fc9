package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekinay/dropin-schedules/internal/logger"
	"github.com/ekinay/dropin-schedules/internal/schedule"
)

var dropInPattern = regexp.MustCompile(`(?i)drop-?in`)

// scrapeFacilityList walks the paginated facility listing, visits each
// facility page and extracts its schedule tables. Individual facility
// failures are logged and skipped; only a broken listing fails the source.
func (s *Scraper) scrapeFacilityList(src Source) ([]*schedule.ScheduleRecord, []InvalidRecord, error) {
	body, err := s.Fetch(src.URL)
	if err != nil {
		return nil, nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, &ParseError{Source: src.Name, Reason: "parsing listing HTML", Err: err}
	}

	facilityURLs, err := s.collectFacilityURLs(src, doc)
	if err != nil {
		return nil, nil, err
	}
	if len(facilityURLs) == 0 {
		return nil, nil, &ParseError{Source: src.Name, Reason: "no facility links found"}
	}

	var records []*schedule.ScheduleRecord
	var invalid []InvalidRecord
	for _, facilityURL := range facilityURLs {
		logger.Debug("processing facility", logger.Fields{"url": facilityURL})

		page, err := s.Fetch(facilityURL)
		if err != nil {
			logger.Error("facility fetch failed, skipping", logger.Fields{"url": facilityURL}, err)
			s.counters.Incr("facilities.failed")
			continue
		}

		facilityDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
		if err != nil {
			logger.Error("facility parse failed", logger.Fields{"url": facilityURL}, err)
			s.counters.Incr("facilities.failed")
			continue
		}

		recs, inv := s.parseFacilityPage(facilityDoc, src)
		records = append(records, recs...)
		invalid = append(invalid, inv...)
	}

	return records, invalid, nil
}

// collectFacilityURLs discovers the listing's page count and gathers the
// facility links from every page.
func (s *Scraper) collectFacilityURLs(src Source, first *goquery.Document) ([]string, error) {
	pages := discoverPageCount(first)
	logger.Info("discovered facility list pages", logger.Fields{"source": src.Name, "pages": pages})

	if pages <= 1 {
		return parseFacilityLinks(first, src.URL), nil
	}

	var urls []string
	for page := 0; page < pages; page++ {
		pageURL := fmt.Sprintf("%s?page=%d", src.URL, page)
		body, err := s.Fetch(pageURL)
		if err != nil {
			logger.Error("facility list page fetch failed", logger.Fields{"url": pageURL}, err)
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			logger.Error("facility list page parse failed", logger.Fields{"url": pageURL}, err)
			continue
		}
		urls = append(urls, parseFacilityLinks(doc, src.URL)...)
	}
	return urls, nil
}

// discoverPageCount counts pager items on the listing. Listings short
// enough to have no pager are a single page.
func discoverPageCount(doc *goquery.Document) int {
	pager := doc.Find("ul.pager__items")
	if pager.Length() == 0 {
		return 1
	}
	// The pager includes a "next" item after the numbered pages.
	count := pager.First().Find("li").Length() - 1
	if count < 1 {
		count = 1
	}
	return count
}

// parseFacilityLinks extracts facility page URLs from the listing table,
// resolving relative hrefs against the listing URL.
func parseFacilityLinks(doc *goquery.Document, listingURL string) []string {
	base, _ := url.Parse(listingURL)

	var urls []string
	doc.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		href, ok := row.Find("a").First().Attr("href")
		if !ok || href == "" {
			return
		}
		if base != nil {
			if ref, err := url.Parse(href); err == nil {
				href = base.ResolveReference(ref).String()
			}
		}
		urls = append(urls, href)
	})
	return urls
}

// parseFacilityPage extracts schedule records from one facility page.
// Facilities without a drop-in section or a recognizable title are skipped.
func (s *Scraper) parseFacilityPage(doc *goquery.Document, src Source) ([]*schedule.ScheduleRecord, []InvalidRecord) {
	hasDropIn := doc.Find("button").FilterFunction(func(i int, sel *goquery.Selection) bool {
		return dropInPattern.MatchString(sel.Text())
	}).Length() > 0
	if !hasDropIn {
		return nil, nil
	}

	facility := facilityTitle(doc)
	if facility == "" {
		logger.Warn("facility page has no title, skipping", nil)
		return nil, nil
	}

	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, nil
	}
	s.counters.Incr("facilities.with_schedules")
	logger.Debug("processing schedule tables", logger.Fields{"facility": facility, "tables": tables.Length()})

	var records []*schedule.ScheduleRecord
	var invalid []InvalidRecord
	tables.Each(func(i int, table *goquery.Selection) {
		raws := s.parseTable(table, facility)
		recs, inv := s.collect(facility, src, raws)
		records = append(records, recs...)
		invalid = append(invalid, inv...)
	})
	return records, invalid
}

func facilityTitle(doc *goquery.Document) string {
	if title := cleanText(doc.Find("h1.page-title span.field--name-title").First().Text()); title != "" {
		return title
	}
	if title := cleanText(doc.Find("h1.page-title").First().Text()); title != "" {
		return title
	}
	return cleanText(doc.Find("h1").First().Text())
}

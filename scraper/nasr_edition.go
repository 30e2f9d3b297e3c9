// scraper/nasr_edition.go
package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gewnthar/faawaypoints/models"
)

// Edition links carry the effective date, e.g. .../NASR_Subscription/2024-10-03
var editionDateRegex = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

const editionDateLayout = "2006-01-02"

// EditionQuery says where to look for NASR editions.
type EditionQuery struct {
	PageURL         string // subscription index page
	EditionSelector string // anchors linking to individual editions
	ArchiveSelector string // anchor on an edition page linking to its zip
	Now             time.Time
}

type editionLink struct {
	effective time.Time
	url       string
}

// FindCurrentEdition scrapes the NASR subscription page and returns the
// newest edition that is already in effect at q.Now, together with the URL
// of its zip archive.
func FindCurrentEdition(ctx context.Context, client *http.Client, q EditionQuery) (*models.NASREdition, error) {
	log.Printf("Scraper: Checking NASR editions at %s (selector: '%s')\n", q.PageURL, q.EditionSelector)

	doc, base, err := fetchDocument(ctx, client, q.PageURL)
	if err != nil {
		return nil, err
	}

	var current *editionLink
	doc.Find(q.EditionSelector).Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		m := editionDateRegex.FindStringSubmatch(href)
		if m == nil {
			return
		}
		effective, err := time.Parse(editionDateLayout, m[1])
		if err != nil {
			log.Printf("WARN Scraper: Ignoring edition link %q: %v", href, err)
			return
		}
		if effective.After(q.Now) {
			return // preview of the next cycle
		}
		if current == nil || effective.After(current.effective) {
			current = &editionLink{effective: effective, url: resolve(base, href)}
		}
	})

	if current == nil {
		return nil, fmt.Errorf("no NASR edition in effect on %s found on %s. QC: Verify edition selector '%s'",
			q.Now.Format(editionDateLayout), q.PageURL, q.EditionSelector)
	}

	archiveURL := current.url
	if !strings.HasSuffix(strings.ToLower(current.url), ".zip") {
		if archiveURL, err = findArchiveLink(ctx, client, current.url, q.ArchiveSelector); err != nil {
			return nil, err
		}
	}

	log.Printf("Scraper: Current NASR edition effective %s, archive %s\n",
		current.effective.Format(editionDateLayout), archiveURL)

	return &models.NASREdition{
		EffectiveFrom:  current.effective,
		EffectiveUntil: current.effective.AddDate(0, 0, models.NASRCycleDays),
		ArchiveURL:     archiveURL,
		PageURL:        current.url,
		LastChecked:    q.Now.UTC(),
	}, nil
}

func findArchiveLink(ctx context.Context, client *http.Client, pageURL, selector string) (string, error) {
	doc, base, err := fetchDocument(ctx, client, pageURL)
	if err != nil {
		return "", err
	}

	var link string
	doc.Find(selector).EachWithBreak(func(i int, a *goquery.Selection) bool {
		if href, ok := a.Attr("href"); ok && href != "" {
			link = resolve(base, href)
			return false
		}
		return true
	})
	if link == "" {
		return "", fmt.Errorf("no archive link on %s. QC: Verify archive selector '%s'", pageURL, selector)
	}
	return link, nil
}

func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid page URL %s: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request for %s: %w", pageURL, err)
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}
	return doc, base, nil
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

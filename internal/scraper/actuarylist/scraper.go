// Package actuarylist drives a Playwright browser over actuarylist.com and
// extracts raw listing cards. It only produces model.RawCard values — all
// normalisation and persistence happens downstream, so the rest of the
// system never touches a browser type.
package actuarylist

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"actuaryhub/internal/model"
)

const (
	cardSelector     = "div[class*='job-card']"
	companySelector  = "p[class*='job-card__company']"
	titleSelector    = "p[class*='job-card__position']"
	locBlockSelector = "div[class*='job-card__locations']"
	countrySelector  = "a[class*='job-card__country']"
	citySelector     = "a[class*='job-card__location']"
	dateSelector     = "p[class*='posted-on']"
	linkSelector     = "a.Job_job-page-link__a5I5g"
	companyURLSel    = "a[href*='/actuarial-employers/']"
	salarySelector   = "p[class*='job-card__salary']"
	tagSelector      = "div[class*='job-card__tags'] a"

	settleDelay = 5 * time.Second
	gotoTimeout = 30000 // ms
)

// popupSelectors are tried in order to dismiss whatever modal the site
// decides to show first.
var popupSelectors = []string{
	"button[type='button'].rounded-md.bg-white.text-gray-400",
	"button[aria-label*='Close']",
	"button[title*='Close']",
	"button[class*='close']",
	"[data-testid*='close']",
}

// Scraper fetches raw listing cards from actuarylist.com.
type Scraper struct {
	baseURL  string
	pages    int
	headless bool
}

// New constructs a Scraper bounded to the given page count.
func New(baseURL string, pages int, headless bool) *Scraper {
	return &Scraper{baseURL: strings.TrimRight(baseURL, "/"), pages: pages, headless: headless}
}

// FetchCards walks the configured number of listing pages and returns every
// card found. Individual card extraction errors are logged and skipped; a
// page-level navigation error aborts with whatever was collected so far.
func (s *Scraper) FetchCards(ctx context.Context) ([]model.RawCard, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright.Run: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.headless),
	})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	var cards []model.RawCard
	for current := 1; current <= s.pages; current++ {
		if err := ctx.Err(); err != nil {
			return cards, err
		}

		pageURL := s.baseURL + "/"
		if current > 1 {
			pageURL = fmt.Sprintf("%s/?page=%d", s.baseURL, current)
		}
		log.Printf("[scraper] Navigating to %s", pageURL)

		if _, err := page.Goto(pageURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(gotoTimeout),
		}); err != nil {
			return cards, fmt.Errorf("goto page %d: %w", current, err)
		}

		time.Sleep(settleDelay) // allow the client-side content to settle
		closePopups(page)

		pageCards, err := s.extractPage(page)
		if err != nil {
			return cards, fmt.Errorf("extract page %d: %w", current, err)
		}
		log.Printf("[scraper] Page %d: %d valid cards", current, len(pageCards))
		cards = append(cards, pageCards...)
	}

	return cards, nil
}

func (s *Scraper) extractPage(page playwright.Page) ([]model.RawCard, error) {
	potential, err := page.Locator(cardSelector).All()
	if err != nil {
		return nil, fmt.Errorf("locate cards: %w", err)
	}

	var cards []model.RawCard
	for _, el := range potential {
		// Only elements carrying a company line are real listing cards.
		if n, _ := el.Locator(companySelector).Count(); n == 0 {
			continue
		}
		card, err := s.extractCard(el)
		if err != nil {
			log.Printf("[scraper] Skipping card: %v", err)
			continue
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (s *Scraper) extractCard(el playwright.Locator) (model.RawCard, error) {
	var card model.RawCard

	company, err := el.Locator(companySelector).First().TextContent()
	if err != nil {
		return card, fmt.Errorf("company: %w", err)
	}
	card.Company = strings.TrimSpace(company)

	title, err := el.Locator(titleSelector).First().TextContent()
	if err != nil {
		return card, fmt.Errorf("title: %w", err)
	}
	card.Title = strings.TrimSpace(title)

	if n, _ := el.Locator(locBlockSelector).Count(); n > 0 {
		card.HasLocation = true
		block := el.Locator(locBlockSelector).First()
		if n, _ := block.Locator(countrySelector).Count(); n > 0 {
			if country, err := block.Locator(countrySelector).First().TextContent(); err == nil {
				card.Country = strings.TrimSpace(country)
			}
		}
		cities, _ := block.Locator(citySelector).All()
		for _, city := range cities {
			if text, err := city.TextContent(); err == nil && strings.TrimSpace(text) != "" {
				card.Cities = append(card.Cities, strings.TrimSpace(text))
			}
		}
	}

	if date, err := el.Locator(dateSelector).First().TextContent(); err == nil {
		card.DateText = strings.TrimSpace(date)
	}

	href, err := el.Locator(linkSelector).First().GetAttribute("href")
	if err != nil {
		return card, fmt.Errorf("listing link: %w", err)
	}
	card.JobURL = s.absoluteURL(href)

	if n, _ := el.Locator(companyURLSel).Count(); n > 0 {
		if href, err := el.Locator(companyURLSel).First().GetAttribute("href"); err == nil {
			card.CompanyURL = s.absoluteURL(href)
		}
	}

	if n, _ := el.Locator(salarySelector).Count(); n > 0 {
		if salary, err := el.Locator(salarySelector).First().TextContent(); err == nil {
			card.SalaryText = strings.TrimSpace(salary)
		}
	}

	tags, _ := el.Locator(tagSelector).All()
	for _, tag := range tags {
		if text, err := tag.TextContent(); err == nil && strings.TrimSpace(text) != "" {
			card.Tags = append(card.Tags, strings.TrimSpace(text))
		}
	}

	return card, nil
}

func (s *Scraper) absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return s.baseURL + href
	}
	return href
}

// closePopups dismisses the first visible modal close button, if any.
func closePopups(page playwright.Page) {
	for _, sel := range popupSelectors {
		loc := page.Locator(sel).First()
		if visible, _ := loc.IsVisible(); visible {
			if err := loc.Click(); err == nil {
				time.Sleep(time.Second)
				return
			}
		}
	}
}

// Package enrich resolves a CUIT to descriptive fiscal text using the
// public cuitonline.com search page. The lookup is best-effort: the site's
// structure may change, and every failure collapses to "no info" so the
// pipeline can annotate and continue.
package enrich

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gastos-csv/internal/logging"
	"gastos-csv/internal/textutils"
)

// DefaultBaseURL is the production lookup endpoint.
const DefaultBaseURL = "https://www.cuitonline.com"

const userAgent = "Mozilla/5.0 (gastos-csv)"

// Lookup maps a formatted tax id to descriptive fiscal text. Implementations
// may fail for any reason; callers must treat every failure as "no info" and
// never propagate it into the extraction pipeline.
type Lookup interface {
	Enrich(cuit string) (string, error)
}

// CuitOnlineClient implements Lookup against cuitonline.com.
type CuitOnlineClient struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewCuitOnlineClient creates a client with the given base URL and network
// timeout. An empty baseURL selects the production endpoint.
func NewCuitOnlineClient(baseURL string, timeout time.Duration, logger logging.Logger) *CuitOnlineClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CuitOnlineClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

var (
	monotributoCategory = regexp.MustCompile(`categoria\s*([a-z0-9]+)`)
	fallbackName        = regexp.MustCompile(`nombre\s*:\s*([^|]+)`)
	fallbackCategory    = regexp.MustCompile(`(monotrib|responsable|autonom|exento|consumidor)`)
	fallbackPersonType  = regexp.MustCompile(`(persona\s+juridica|persona\s+fisica|sociedad)`)
)

var titleCaser = cases.Title(language.Spanish)

// Enrich fetches the search page for cuit and extracts name, tax category
// and person type, joined with " / ". An empty result with a nil error means
// the page was fetched but carried no usable information.
func (c *CuitOnlineClient) Enrich(cuit string) (string, error) {
	if cuit == "" {
		return "", fmt.Errorf("empty cuit")
	}

	url := c.baseURL + "/search/" + cuit
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("Enrichment lookup", logging.F("cuit", cuit), logging.F("url", url))
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, cuit)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing response page: %w", err)
	}

	info := extractFiscalInfo(doc, cuit)
	c.logger.Debug("Enrichment result", logging.F("cuit", cuit), logging.F("info", info))
	return info, nil
}

// extractFiscalInfo prefers structured extraction from the first search hit
// and falls back to whole-page heuristics when the expected nodes are gone.
func extractFiscalInfo(doc *html.Node, cuit string) string {
	var name, cuitText, category, personType string

	if hit := findByClass(doc, "div", "hit"); hit != nil {
		if h2 := findByClass(hit, "h2", "denominacion"); h2 != nil {
			name = strings.TrimSpace(nodeText(h2))
		}
		if span := findByClass(hit, "span", "cuit"); span != nil {
			cuitText = strings.TrimSpace(nodeText(span))
		}
		if facets := findByClass(hit, "div", "doc-facets"); facets != nil {
			category, personType = classifyFacets(textutils.NormalizeText(nodeText(facets)))
		}
	}

	if name == "" && cuitText == "" && category == "" && personType == "" {
		name, category, personType = fallbackScan(doc)
	}

	cuitFinal := cuitText
	if cuitFinal == "" {
		cuitFinal = cuit
	}

	var parts []string
	for _, p := range []string{name, cuitFinal, category, personType} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	// A bare echo of the input id is no information at all.
	if len(parts) == 1 && parts[0] == cuit {
		return ""
	}
	return strings.Join(parts, " / ")
}

// classifyFacets maps the normalized facet text of a search hit to a tax
// category and a person type.
func classifyFacets(facets string) (category, personType string) {
	switch {
	case strings.Contains(facets, "monotribut"):
		if m := monotributoCategory.FindStringSubmatch(facets); m != nil {
			category = fmt.Sprintf("Monotributista (Categoría %s)", strings.ToUpper(m[1]))
		} else {
			category = "Monotributista"
		}
	case strings.Contains(facets, "responsable"):
		category = "Responsable Inscripto"
	case strings.Contains(facets, "exento"):
		category = "Exento"
	case strings.Contains(facets, "consumidor"):
		category = "Consumidor Final"
	}

	switch {
	case strings.Contains(facets, "persona fisica"):
		personType = "Persona Física"
	case strings.Contains(facets, "persona juridica"), strings.Contains(facets, "sociedad"):
		personType = "Persona Jurídica"
	}
	return category, personType
}

// fallbackScan runs loose heuristics over the whole page text.
func fallbackScan(doc *html.Node) (name, category, personType string) {
	pageText := textutils.NormalizeText(collectText(doc))

	if m := fallbackName.FindStringSubmatch(pageText); m != nil {
		name = titleCaser.String(strings.TrimSpace(m[1]))
	}
	if m := fallbackCategory.FindStringSubmatch(pageText); m != nil {
		category = titleCaser.String(m[1])
	}
	if m := fallbackPersonType.FindStringSubmatch(pageText); m != nil {
		personType = titleCaser.String(m[1])
	}
	return name, category, personType
}

// findByClass returns the first element with the given tag carrying class in
// its class attribute, in depth-first order.
func findByClass(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// nodeText concatenates all text content under n, space-separated.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collectText gathers the text of the content-bearing elements of the page.
func collectText(doc *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "li", "td", "span", "div":
				sb.WriteString(nodeText(n))
				sb.WriteByte(' ')
				return
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}

package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vk-image-export/pkg/models"
	"vk-image-export/pkg/utils"
)

// imageLinkPattern recognizes attachment hrefs on the VK image CDN. The
// prefix match is deliberate: query strings and fragments after the path are
// part of the captured URL.
var imageLinkPattern = regexp.MustCompile(`^https://sun9-\d+\.userapi\.com/[^"]+`)

// Links parses one decoded export document and returns its image links in
// document order, each paired with the raw header date of the message it is
// attached to. Messages without a header block (service entries) contribute
// nothing. A failure to parse the document itself is an error; the caller
// logs it and skips the file.
func Links(text string) ([]models.ExtractedLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: HTML document: %w", utils.ErrParsing, err)
	}

	var links []models.ExtractedLink
	doc.Find("div.item").Each(func(_ int, item *goquery.Selection) {
		header := item.Find(".message__header")
		if header.Length() == 0 {
			return
		}
		rawDate := headerDate(header.First().Text())

		item.Find("a.attachment__link").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || !imageLinkPattern.MatchString(href) {
				return
			}
			links = append(links, models.ExtractedLink{URL: href, RawDate: rawDate})
		})
	})

	return links, nil
}

// headerDate pulls the date segment out of a message header like
// "Иван Иванов, 5 фев 2021 в 14:03:21": the text after the last comma,
// trimmed. Headers without a comma yield the whole trimmed text.
func headerDate(headerText string) string {
	idx := strings.LastIndex(headerText, ",")
	return strings.TrimSpace(headerText[idx+1:])
}

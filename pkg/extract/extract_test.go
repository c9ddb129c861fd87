package extract

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// exportDoc wraps message markup in the surrounding structure of a VK
// message export page.
func exportDoc(items string) string {
	return `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Messages</title></head>
<body><div class="page_content">` + items + `</div></body></html>`
}

func messageItem(header, body string) string {
	h := ""
	if header != "" {
		h = `<div class="message__header">` + header + `</div>`
	}
	return `<div class="item"><div class="message">` + h +
		`<div class="message__body">` + body + `</div></div></div>`
}

func attachment(href string) string {
	return `<a class="attachment__link" href="` + href + `">Фотография</a>`
}

func TestLinks_SingleMessage(t *testing.T) {
	doc := exportDoc(messageItem(
		"Иван Иванов, 5 фев 2021 в 14:03:21",
		attachment("https://sun9-12.userapi.com/impg/abc/photo.jpg"),
	))

	links, err := Links(doc)
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("Links() returned %d links, want 1", len(links))
	}
	if links[0].URL != "https://sun9-12.userapi.com/impg/abc/photo.jpg" {
		t.Errorf("URL = %q, want the attachment href", links[0].URL)
	}
	if links[0].RawDate != "5 фев 2021 в 14:03:21" {
		t.Errorf("RawDate = %q, want %q", links[0].RawDate, "5 фев 2021 в 14:03:21")
	}
}

func TestLinks_DocumentOrderPreserved(t *testing.T) {
	doc := exportDoc(
		messageItem("Аня, 1 янв 2021 в 10:00:00",
			attachment("https://sun9-1.userapi.com/first.jpg")+
				attachment("https://sun9-2.userapi.com/second.jpg")) +
			messageItem("Боря, 2 янв 2021 в 11:00:00",
				attachment("https://sun9-3.userapi.com/third.jpg")),
	)

	links, err := Links(doc)
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}

	wantURLs := []string{
		"https://sun9-1.userapi.com/first.jpg",
		"https://sun9-2.userapi.com/second.jpg",
		"https://sun9-3.userapi.com/third.jpg",
	}
	if len(links) != len(wantURLs) {
		t.Fatalf("Links() returned %d links, want %d", len(links), len(wantURLs))
	}
	for i, want := range wantURLs {
		if links[i].URL != want {
			t.Errorf("links[%d].URL = %q, want %q", i, links[i].URL, want)
		}
	}
	if links[2].RawDate != "2 янв 2021 в 11:00:00" {
		t.Errorf("links[2].RawDate = %q, want the second message's date", links[2].RawDate)
	}
}

func TestLinks_MessageWithoutHeaderContributesNothing(t *testing.T) {
	doc := exportDoc(
		messageItem("", attachment("https://sun9-1.userapi.com/orphan.jpg")) +
			messageItem("Вера, 3 мар 2021 в 12:00:00",
				attachment("https://sun9-2.userapi.com/kept.jpg")),
	)

	links, err := Links(doc)
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("Links() returned %d links, want 1 (headerless message skipped)", len(links))
	}
	if links[0].URL != "https://sun9-2.userapi.com/kept.jpg" {
		t.Errorf("URL = %q, want the link from the message with a header", links[0].URL)
	}
}

func TestLinks_NonMatchingHrefsIgnored(t *testing.T) {
	tests := []struct {
		name string
		href string
	}{
		{"OtherHost", "https://example.com/photo.jpg"},
		{"MissingHostNumber", "https://sun9-.userapi.com/photo.jpg"},
		{"HTTPScheme", "http://sun9-12.userapi.com/photo.jpg"},
		{"Relative", "/photo.jpg"},
		{"EmptyPath", "https://sun9-12.userapi.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := exportDoc(messageItem("Глеб, 4 апр 2021 в 13:00:00", attachment(tt.href)))

			links, err := Links(doc)
			if err != nil {
				t.Fatalf("Links() error = %v", err)
			}
			if len(links) != 0 {
				t.Errorf("Links() returned %d links, want 0 for href %q", len(links), tt.href)
			}
		})
	}
}

func TestLinks_AnchorWithoutHrefIgnored(t *testing.T) {
	doc := exportDoc(messageItem("Дима, 5 мая 2021 в 14:00:00",
		`<a class="attachment__link">нет ссылки</a>`))

	links, err := Links(doc)
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Links() returned %d links, want 0", len(links))
	}
}

func TestLinks_QueryStringKept(t *testing.T) {
	href := "https://sun9-7.userapi.com/impg/xyz/photo.jpg?size=1280x960&quality=96"
	doc := exportDoc(messageItem("Женя, 6 июн 2021 в 15:00:00", attachment(href)))

	links, err := Links(doc)
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if len(links) != 1 || links[0].URL != href {
		t.Fatalf("Links() = %v, want the full href with query string", links)
	}
}

func TestLinks_HeaderDateSegments(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"NameAndDate", "Иван Иванов, 5 фев 2021 в 14:03:21", "5 фев 2021 в 14:03:21"},
		{"CommaInName", "Иванов, Иван, 5 фев 2021 в 14:03:21", "5 фев 2021 в 14:03:21"},
		{"NoComma", "5 фев 2021 в 14:03:21", "5 фев 2021 в 14:03:21"},
		{"PaddedWhitespace", "Оля,   7 июл 2021 в 16:00:00  ", "7 июл 2021 в 16:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := exportDoc(messageItem(tt.header, attachment("https://sun9-9.userapi.com/p.jpg")))

			links, err := Links(doc)
			if err != nil {
				t.Fatalf("Links() error = %v", err)
			}
			if len(links) != 1 {
				t.Fatalf("Links() returned %d links, want 1", len(links))
			}
			if links[0].RawDate != tt.expected {
				t.Errorf("RawDate = %q, want %q", links[0].RawDate, tt.expected)
			}
		})
	}
}

func TestLinks_EmptyDocument(t *testing.T) {
	links, err := Links(exportDoc(""))
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if len(links) != 0 {
		t.Errorf("Links() returned %d links, want 0", len(links))
	}
}

// Encoding must not change what gets extracted: the same document stored as
// windows-1251 and as UTF-8 yields identical link sets.
func TestLinks_EncodingsAgree(t *testing.T) {
	doc := exportDoc(messageItem(
		"Игорь Иванов, 5 фев 2021 в 14:03:21",
		attachment("https://sun9-12.userapi.com/impg/abc/photo.jpg"),
	))

	cp1251, err := charmap.Windows1251.NewEncoder().Bytes([]byte(doc))
	if err != nil {
		t.Fatalf("encoding fixture to cp1251: %v", err)
	}

	fromCp1251, enc, err := DecodeText(cp1251)
	if err != nil {
		t.Fatalf("DecodeText(cp1251) error = %v", err)
	}
	if enc != "windows-1251" {
		t.Errorf("DecodeText(cp1251) encoding = %q, want windows-1251", enc)
	}

	fromUTF8, enc, err := DecodeText([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeText(utf-8) error = %v", err)
	}
	if enc != "utf-8" {
		t.Errorf("DecodeText(utf-8) encoding = %q, want utf-8", enc)
	}

	linksA, err := Links(fromCp1251)
	if err != nil {
		t.Fatalf("Links(cp1251 text) error = %v", err)
	}
	linksB, err := Links(fromUTF8)
	if err != nil {
		t.Fatalf("Links(utf-8 text) error = %v", err)
	}

	if len(linksA) != 1 || len(linksB) != 1 {
		t.Fatalf("link counts differ: cp1251=%d utf-8=%d", len(linksA), len(linksB))
	}
	if linksA[0] != linksB[0] {
		t.Errorf("links differ across encodings: %v vs %v", linksA[0], linksB[0])
	}
}

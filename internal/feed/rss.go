package feed

import (
	"errors"
	"fmt"
	"strings"

	"music-genre-app/internal/domain"
)

const (
	ChannelTitle       = "Music Genre App"
	ChannelDescription = "Latest songs and their genres"
	ChannelLanguage    = "en-us"
	ChannelGenerator   = "Music Genre App"
	ChannelTTL         = 40

	ContentType  = "application/xml"
	CacheControl = "public, max-age=600, s-maxage=86400"

	pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// ErrNoHost is returned when the request carries no host to build links from.
var ErrNoHost = errors.New("could not determine domain url")

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeCDATA splits any "]]>" so the text can sit inside a CDATA section.
func EscapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}

// EscapeHTML escapes the five HTML special characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Domain builds the scheme and host prefix used for feed links.
// forwardedHost wins over host; localhost is served over plain http.
func Domain(forwardedHost, host string) (string, error) {
	h := strings.TrimSpace(forwardedHost)
	if h == "" {
		h = strings.TrimSpace(host)
	}
	if h == "" || !validHost(h) {
		return "", ErrNoHost
	}
	scheme := "https"
	if strings.Contains(h, "localhost") {
		scheme = "http"
	}
	return scheme + "://" + h, nil
}

// validHost accepts host names, IPv4 and bracketed IPv6 literals with an
// optional port.
func validHost(h string) bool {
	for _, r := range h {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == ':', r == '[', r == ']':
		default:
			return false
		}
	}
	return true
}

// Render produces the RSS 2.0 document for items, linking into baseURL.
func Render(baseURL string, items []domain.FeedItem) string {
	songsURL := EscapeHTML(strings.TrimRight(baseURL, "/") + "/songs")

	var b strings.Builder
	fmt.Fprintf(&b, `<rss xmlns:blogChannel="%s" version="2.0">`+"\n", songsURL)
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", ChannelTitle)
	fmt.Fprintf(&b, "    <link>%s</link>\n", songsURL)
	fmt.Fprintf(&b, "    <description>%s</description>\n", ChannelDescription)
	fmt.Fprintf(&b, "    <language>%s</language>\n", ChannelLanguage)
	fmt.Fprintf(&b, "    <generator>%s</generator>\n", ChannelGenerator)
	fmt.Fprintf(&b, "    <ttl>%d</ttl>\n", ChannelTTL)
	for _, item := range items {
		link := songsURL + "/" + item.ID
		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title><![CDATA[%s]]></title>\n", EscapeCDATA(item.Title))
		fmt.Fprintf(&b, "      <description><![CDATA[A song called %s]]></description>\n", EscapeHTML(item.Title))
		fmt.Fprintf(&b, "      <author><![CDATA[%s]]></author>\n", EscapeCDATA(item.OwnerUsername))
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", item.CreatedAt.UTC().Format(pubDateLayout))
		fmt.Fprintf(&b, "      <link>%s</link>\n", link)
		fmt.Fprintf(&b, "      <guid>%s</guid>\n", link)
		b.WriteString("    </item>\n")
	}
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>")
	return b.String()
}

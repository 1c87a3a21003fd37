package resolve

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

const (
	DefaultCardmarketURL = "https://www.cardmarket.com/en/Magic/Cards/"
	DefaultTCGplayerURL  = "https://www.tcgplayer.com/search/all/product?q="
)

// Markets builds the page an operator checks to price a card by hand.
type Markets struct {
	CardmarketURL string
	TCGplayerURL  string
}

// DefaultMarkets points at the public Cardmarket and TCGplayer sites.
func DefaultMarkets() Markets {
	return Markets{
		CardmarketURL: DefaultCardmarketURL,
		TCGplayerURL:  DefaultTCGplayerURL,
	}
}

var cardmarketSlug = strings.NewReplacer(" ", "-", ",", "", "'", "")

// URL returns the market page for card in the currency of field.
// Euro fields go to Cardmarket, dollar fields to TCGplayer; other fields
// have no market page.
func (m Markets) URL(card, field string) (string, bool) {
	switch {
	case strings.Contains(field, "eur"):
		return m.CardmarketURL + cardmarketSlug.Replace(card), true
	case strings.Contains(field, "usd"):
		return m.TCGplayerURL + url.QueryEscape(card), true
	default:
		return "", false
	}
}

// Opener shows a URL to the operator.
type Opener func(url string)

// OpenInBrowser opens url in a locally installed Chromium-family browser.
func OpenInBrowser(url string) {
	if _, ok := launcher.LookPath(); !ok {
		slog.Warn("no browser found, open the page manually", "url", url)
		return
	}
	launcher.Open(url)
}

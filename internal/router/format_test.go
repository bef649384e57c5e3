package router

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

const testBaseURL = "https://polymarket.com"

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestFormatAlertFull(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m := model.Market{
		ID:            "2",
		Question:      "Will the Fed cut rates?",
		Slug:          "fed-cut",
		Description:   "Resolves YES if the FOMC lowers the target range.",
		Volume:        12345.6,
		Liquidity:     500,
		OutcomePrices: []float64{0.25, 0.75},
		Tags:          []string{"Fed Rates", "Economy", "Fed Rates", "Macro", "Extra"},
		CreatedAt:     at("2026-10-18T08:55:00Z"),
		EndDate:       at("2026-12-31T12:00:00Z"),
	}

	got := FormatAlert(m, model.TopicBusiness, testBaseURL, now)

	want := "💹 <b>NEW MARKET</b> - Business | 🔥 <b>TRENDING</b>\n" +
		"━━━━━━━━━━━━━━\n\n" +
		"📊 <b>Will the Fed cut rates?</b>\n\n" +
		"<i>Resolves YES if the FOMC lowers the target range.</i>\n\n" +
		"💰 <b>Vol</b>: $12,346   💧 <b>Liq</b>: $500\n" +
		"📈 <b>Yes</b>: 25.0% | <b>No</b>: 75.0%\n" +
		"⏰ <b>Added</b>: 5 minutes ago\n" +
		"🏁 <b>Ends</b>: Dec 31\n" +
		"\n🏷️ #FedRates #Economy #Macro\n" +
		"\n🔗 <a href=\"https://polymarket.com/event/fed-cut\">Trade Now</a>"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatAlert() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatAlertMinimal(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m := model.Market{ID: "5", Group: "Yes"}

	got := FormatAlert(m, model.TopicOther, testBaseURL, now)

	want := "📊 <b>NEW MARKET</b> - Other\n" +
		"━━━━━━━━━━━━━━\n\n" +
		"📊 <b>Yes</b>\n\n" +
		"\n🔗 <a href=\"https://polymarket.com\">Trade Now</a>"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatAlert() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatAlertEscapesHTML(t *testing.T) {
	m := model.Market{Question: "Will the S&P close <above> 6000?"}
	got := FormatAlert(m, model.TopicBusiness, testBaseURL, time.Now())

	if !strings.Contains(got, "<b>Will the S&amp;P close &lt;above&gt; 6000?</b>") {
		t.Errorf("question not escaped:\n%s", got)
	}
}

func TestFormatAlertEscapesLinkAttribute(t *testing.T) {
	m := model.Market{Question: "Quoted link", Link: `https://x.test/a?b="c"&d=1`}
	got := FormatAlert(m, model.TopicNews, testBaseURL, time.Now())

	want := `<a href="https://x.test/a?b=&#34;c&#34;&amp;d=1">Trade Now</a>`
	if !strings.Contains(got, want) {
		t.Errorf("expected anchor %q in:\n%s", want, got)
	}
}

func TestFormatAlertTruncatesDescription(t *testing.T) {
	m := model.Market{
		Question:    "Long one",
		Description: strings.Repeat("abcd ", 40),
	}
	got := FormatAlert(m, model.TopicOther, testBaseURL, time.Now())

	want := "<i>" + strings.TrimSpace(strings.Repeat("abcd ", 24)) + " ...</i>"
	if !strings.Contains(got, want) {
		t.Errorf("expected preview %q in:\n%s", want, got)
	}
}

func TestLink(t *testing.T) {
	tests := []struct {
		name   string
		market model.Market
		want   string
	}{
		{
			name:   "feed link wins",
			market: model.Market{Link: "https://feed.example.com/m/1", Slug: "ignored"},
			want:   "https://feed.example.com/m/1",
		},
		{
			name:   "slug",
			market: model.Market{Slug: "btc-100k"},
			want:   "https://polymarket.com/event/btc-100k",
		},
		{
			name:   "fallback",
			market: model.Market{},
			want:   "https://polymarket.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Link(tt.market, testBaseURL+"/")); diff != "" {
				t.Errorf("Link() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsTrending(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		market model.Market
		want   bool
	}{
		{name: "young and busy", market: model.Market{Volume: 20000, CreatedAt: at("2026-10-18T08:30:00Z")}, want: true},
		{name: "old", market: model.Market{Volume: 20000, CreatedAt: at("2026-10-18T07:30:00Z")}},
		{name: "quiet", market: model.Market{Volume: 900, CreatedAt: at("2026-10-18T08:59:00Z")}},
		{name: "no creation time", market: model.Market{Volume: 20000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, IsTrending(tt.market, now)); diff != "" {
				t.Errorf("IsTrending() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

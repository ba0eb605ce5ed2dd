package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

// Reply copy. Amounts are Rial values shown under the Toman label with no
// conversion, matching the dashboard.
const (
	msgStart = "👋 Welcome to Phone Analyst Bot!\n" +
		"Available commands:\n" +
		"/compare <brand model>\n" +
		"/watch <device> <target>\n" +
		"/report\n" +
		"/health"
	msgInvalidCommand = "Invalid command. Send /help to see the available commands."
	msgWatchUsage     = "To register an alert use /watch <device> <target>."
	msgUnavailable    = "⚠️ Market data is temporarily unavailable, please try again later."
	msgQuietMarket    = "No notable price movement recorded today."
	msgUnknownDevice  = "unknown"
)

var (
	printer = message.NewPrinter(language.English)

	markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)
)

// formatToman groups digits and appends the Toman label
func formatToman(amount int64) string {
	return printer.Sprintf("%d Toman", amount)
}

func formatTomanDecimal(amount decimal.Decimal) string {
	return formatToman(amount.Round(0).IntPart())
}

// escapeMarkdown neutralizes user text embedded in Markdown replies
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func formatCompare(match *domain.PhoneAnalysis) string {
	return strings.Join([]string{
		fmt.Sprintf("📱 *%s*", escapeMarkdown(match.Name)),
		fmt.Sprintf("Best price: *%s* from %s", formatToman(match.BestPrice.Price), match.BestPrice.RetailerID),
		fmt.Sprintf("Highest price: %s from %s", formatToman(match.WorstPrice.Price), match.WorstPrice.RetailerID),
		fmt.Sprintf("Spread: %s (%s%%)", formatToman(match.PriceSpread), match.SpreadPercent.String()),
	}, "\n")
}

func formatNotFound(query string) string {
	return fmt.Sprintf("❗️ *No result found.*\nModel \"%s\" was not found in the catalog.", escapeMarkdown(query))
}

func formatReport(snapshot *domain.MarketSnapshot) string {
	lines := make([]string, 0, len(snapshot.HighestSpread))
	for _, d := range snapshot.HighestSpread {
		lines = append(lines, fmt.Sprintf("• *%s* → %s spread between %s and %s",
			escapeMarkdown(d.Name),
			formatToman(d.PriceSpread),
			d.BestPrice.RetailerID,
			d.WorstPrice.RetailerID,
		))
	}

	headline := strings.Join(lines, "\n")
	if headline == "" {
		headline = msgQuietMarket
	}

	return strings.Join([]string{
		"🗞 *Daily mobile market report*",
		"Market average: " + formatTomanDecimal(snapshot.OverallAverage),
		"",
		headline,
	}, "\n")
}

func formatHealth(snapshot *domain.MarketSnapshot) string {
	top := msgUnknownDevice
	if len(snapshot.HighestSpread) > 0 {
		top = escapeMarkdown(snapshot.HighestSpread[0].Name)
	}

	return strings.Join([]string{
		"✅ *Phone Analyst Bot*",
		fmt.Sprintf("Active devices: %d", len(snapshot.Devices)),
		"Top device today: " + top,
	}, "\n")
}

func formatWatchAck(device *domain.PhoneAnalysis, threshold int64) string {
	return strings.Join([]string{
		"🔔 *Watch request received*",
		"Device: " + escapeMarkdown(device.Name),
		"Target price: " + formatToman(threshold),
		"Alerts are not stored; send /compare to check the current best offer.",
	}, "\n")
}

func formatWatchNotFound(query string) string {
	return fmt.Sprintf("❗️ Device not found: nothing matches \"%s\".", escapeMarkdown(query))
}

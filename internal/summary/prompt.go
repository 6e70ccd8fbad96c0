package summary

import (
	"fmt"

	"earnings-bot/internal/models"
)

const systemPrompt = "You are a financial analyst that summarizes earnings call transcripts for Twitter."

// buildPrompt interpolates the event into the fixed prompt template. The
// same event always yields the same prompt.
func buildPrompt(event models.EarningsEvent, count, limit int) string {
	return fmt.Sprintf(`You are analyzing an earnings call transcript for a stock market bot.

Company: %s
Quarter: %s %d
Transcript Link: %s

Please create a comprehensive %d-tweet thread summary of the key points from this earnings call. For each tweet:

Tweet 1: Overall earnings summary (revenue, EPS, growth)
Tweet 2: Key financial metrics and performance highlights
Tweet 3: Management commentary on business outlook
Tweet 4: Strategic initiatives and market positioning
Tweet 5: Guidance for future quarters/years

Format your response as a JSON object with a "tweets" array of exactly %d objects, each with a "tweet" field containing the tweet text.
Keep each tweet under %d characters including hashtags.

Example format:
{
  "tweets": [
    {"tweet": "Summary tweet 1"},
    {"tweet": "Summary tweet 2"},
    {"tweet": "Summary tweet 3"},
    {"tweet": "Summary tweet 4"},
    {"tweet": "Summary tweet 5"}
  ]
}

Analyze the transcript at the link and generate the thread.`,
		event.CompanyName, event.Period, event.FiscalYear, event.SourceLink, count, count, limit)
}

package ua

import "strings"

// crawlerTokens are lower-case substrings that mark an automated agent.
// Search indexers first, then link-preview fetchers, then SEO tooling and
// AI fetchers, then the generic catch-alls.
var crawlerTokens = []string{
	// search engines
	"googlebot", "google-inspectiontool", "adsbot-google", "mediapartners-google",
	"bingbot", "bingpreview", "msnbot", "slurp", "duckduckbot", "baiduspider",
	"yandex", "sogou", "exabot", "applebot", "petalbot", "seznambot",

	// social and chat previews
	"facebookexternalhit", "facebookcatalog", "meta-externalagent", "twitterbot",
	"linkedinbot", "pinterest", "slackbot", "slack-imgproxy", "discordbot",
	"telegrambot", "whatsapp", "skypeuripreview", "redditbot", "embedly",
	"quora link preview", "vkshare", "iframely", "tumblr", "bitlybot", "nuzzel",

	// SEO tools, headless renderers, AI fetchers
	"ahrefsbot", "semrushbot", "mj12bot", "dotbot", "rogerbot", "screaming frog",
	"chrome-lighthouse", "headlesschrome", "prerender", "gptbot", "chatgpt-user",
	"oai-searchbot", "claudebot", "perplexitybot",

	// generic
	"bot", "crawler", "spider", "crawl", "fetcher", "preview",
}

// IsCrawler reports whether raw identifies an automated agent.
func IsCrawler(raw string) bool {
	return Parse(raw).IsBot
}

func matchesCrawlerToken(raw string) bool {
	s := strings.ToLower(raw)
	for _, tok := range crawlerTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

package draft

import (
	"fmt"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const (
	draftTemperature = 0.7
	draftMaxTokens   = 350
)

const systemPrompt = "You are a professional business development expert who writes personalized, value-driven cold emails that focus on the client's needs and lost opportunities."

const noWebsitePrompt = `
Write a short, compelling cold email to a business that DOES NOT have a website yet.

Business Details:
- Business Name: %s
- Owner: %s
- Rating: %s
- Phone: %s
- **Status: NO WEBSITE** (This is your opportunity!)

Requirements:
1. Keep it under 120 words
2. Start with a specific observation about their business
3. Mention that they DON'T have a website yet (this is the opportunity)
4. If they have a good rating, acknowledge it and explain how a website could help them get MORE customers
5. Offer a FREE website audit or consultation
6. Emphasize how much business they're losing without online presence
7. Be professional but urgent - they're missing out!
8. Include a clear call-to-action
9. Sign with [Your Name]

Make it personal, not salesy. Focus on THEIR lost revenue/opportunity.

Return ONLY the email body, no subject line.
`

const hasWebsitePrompt = `
Write a short, professional cold email offering website improvement services.

Business Details:
- Business Name: %s
- Owner: %s
- Rating: %s
- Website: %s

Requirements:
1. Keep it under 120 words
2. Be professional but friendly
3. Mention their business name
4. If rating exists, acknowledge their good reputation
5. Offer a FREE website audit or improvement suggestions
6. Mention specific modern web features (mobile optimization, faster loading, better SEO)
7. Include a clear call-to-action
8. Sign with [Your Name]

Make it helpful, not pushy.

Return ONLY the email body, no subject line.
`

const noWebsiteFallback = `Hi,

I came across %s and noticed you don't have a website yet. %s clearly doing great, but I wanted to reach out because you're likely missing out on significant revenue from customers who search online.

In today's market, 81%% of customers check businesses online before visiting. Without a website, they're choosing your competitors instead.

I'd love to offer you a free consultation on getting your business online. It's easier and more affordable than you might think, and I can show you exactly how much business you're currently losing.

Would you be open to a quick 10-minute call this week?

Best regards,
[Your Name]
`

const hasWebsiteFallback = `Hi,

I came across %s and was impressed by your online presence. %sI believe there might be opportunities to enhance your digital visibility and attract more customers.

I specialize in helping businesses like yours improve their websites and online marketing. Would you be open to a quick 15-minute call to discuss how we could help you grow?

Looking forward to hearing from you.

Best regards,
[Your Name]
`

const notSpecified = "Not specified"

func buildPrompt(lead model.Lead) string {
	name := businessName(lead)
	if needsWebsite(lead) {
		return fmt.Sprintf(noWebsitePrompt, name,
			orNotSpecified(lead.OwnerName),
			orNotSpecified(lead.Rating),
			orNotSpecified(lead.Phone),
		)
	}
	return fmt.Sprintf(hasWebsitePrompt, name,
		orNotSpecified(lead.OwnerName),
		orNotSpecified(lead.Rating),
		lead.Website,
	)
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

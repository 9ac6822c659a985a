package narrative

import "github.com/ryosukesatoh/narrative-radar/internal/radar"

var titles = map[string]string{
	"ai":       "AI Agents x Solana Tooling",
	"token":    "Token Extensions / Token-2022 Adoption",
	"anchor":   "Anchor + Developer UX Iteration",
	"defi":     "DeFi Iteration + New Market Structures",
	"nft":      "NFT Utility + Consumer Experimentation",
	"payments": "Payments + Consumer Flows",
	"mobile":   "Mobile-first Solana Apps",
	"depin":    "DePIN + Real-world Integrations",
	"misc":     "Other Emerging Signals",
}

var ideas = map[string][]radar.Idea{
	"ai": {
		{Title: "Agent-safe action router", Description: "Policy-gated intent router for wallets + dApps, with receipts + spend caps."},
		{Title: "On-chain narrative scout agent", Description: "Agent that tracks signals, generates weekly narrative briefs, and posts to a public hub."},
		{Title: "Security-first agent sandbox", Description: "Simulate Solana tx outcomes + risk scoring before signing."},
		{Title: "MCP server for Solana RPC", Description: "Typed tool-calling surface over accounts, programs and transaction history."},
		{Title: "Agent wallet audit trail", Description: "Tamper-evident log of every agent-initiated transaction with human review hooks."},
	},
	"token": {
		{Title: "Token Extensions directory", Description: "Live tracker of Token-2022 usage + best-practice templates."},
		{Title: "Transfer hook commerce", Description: "Payments / loyalty primitives using transfer hooks + receipts."},
		{Title: "Issuer compliance toolkit", Description: "Open-source rules engine to encode transfer restrictions and audit logs."},
		{Title: "Confidential transfer demo kit", Description: "Reference app showing confidential balances end to end with wallet support."},
		{Title: "Extension migration assistant", Description: "Plan and simulate moving legacy SPL mints to Token-2022 extensions."},
	},
	"anchor": {
		{Title: "Anchor template generator", Description: "Generate secure program templates with tests + CI + linting."},
		{Title: "Program diff + upgrade advisor", Description: "Surface breaking changes and safe upgrade paths for Anchor programs."},
		{Title: "IDL intelligence", Description: "Search + compare IDLs and usage examples across ecosystem."},
		{Title: "Constraint linter", Description: "Static checks for missing signer, owner and seed constraints in Anchor accounts."},
		{Title: "Client codegen playground", Description: "Paste an IDL, get typed clients and runnable examples in the browser."},
	},
	"defi": {
		{Title: "Liquidity insight radar", Description: "Detect liquidity shifts + new primitives and generate strategy ideas."},
		{Title: "Perp risk dashboard", Description: "Explain liquidation clusters + open interest changes with alerts."},
		{Title: "Composable DeFi lego index", Description: "Map protocols + integrations to highlight gaps and build opportunities."},
		{Title: "Lending health monitor", Description: "Track collateral ratios across money markets and warn before liquidations."},
		{Title: "Swap route explainer", Description: "Break down aggregator routes, fees and price impact in plain language."},
	},
	"payments": {
		{Title: "Merchant starter kit", Description: "Plug-and-play checkout with receipts + refunds + accounting exports."},
		{Title: "Micropaywall for content", Description: "Solana Pay micro-tipping with simple UX."},
		{Title: "Recurring payments primitive", Description: "Escrow + schedule pattern with transparent controls."},
		{Title: "Invoice-to-pay links", Description: "Generate payable invoices with status tracking and stablecoin settlement."},
		{Title: "Point-of-sale reference app", Description: "Tap-to-pay flow for physical stores with offline queueing."},
	},
	"mobile": {
		{Title: "Mobile wallet UX benchmark", Description: "Compare flows across wallets and propose improvements with metrics."},
		{Title: "Offline-first Solana app starter", Description: "Sync model patterns + safe signing flows."},
		{Title: "Push-notif transaction concierge", Description: "Explain transactions in human language with risk flags."},
		{Title: "Mobile dApp store scout", Description: "Track new mobile dApp listings and surface underserved categories."},
		{Title: "Seed vault integration kit", Description: "Drop-in components for hardware-backed signing on mobile."},
	},
	"depin": {
		{Title: "DePIN coverage map", Description: "Aggregate node locations and uptime across networks into one live map."},
		{Title: "Device onboarding SDK", Description: "Provision hardware, register on-chain identity and start reporting in minutes."},
		{Title: "Reward economics simulator", Description: "Model emissions, demand and operator payouts before launching a network."},
		{Title: "Proof-of-coverage verifier", Description: "Open tooling to audit coverage claims against independent measurements."},
		{Title: "Operator fleet dashboard", Description: "Monitor earnings, health and firmware across many devices."},
	},
	"nft": {
		{Title: "Utility NFT access passes", Description: "Token-gated perks and events with check-in receipts."},
		{Title: "Compressed NFT minting studio", Description: "Low-cost mass minting with templates for loyalty and ticketing."},
		{Title: "Royalty enforcement tracker", Description: "Monitor marketplace royalty behavior and creator earnings over time."},
		{Title: "Dynamic NFT toolkit", Description: "Update metadata from on-chain events with verifiable history."},
		{Title: "Collection health score", Description: "Rank collections by holder spread, liquidity and activity."},
	},
	"misc": {
		{Title: "Narrative-to-ideas API", Description: "Public API that outputs narratives + citations + ranked ideas."},
		{Title: "Ecosystem signal dashboard", Description: "One page: repos, onchain signals, blog coverage, ranked weekly."},
		{Title: "Founder briefing generator", Description: "Generate investor-style briefs from evidence links."},
		{Title: "Grant opportunity matcher", Description: "Match builders to open grants and bounties based on recent activity."},
		{Title: "Ecosystem changelog digest", Description: "Weekly digest of notable releases across core repositories."},
	},
}

// Title returns the human label for tag, or the tag itself when unknown.
func Title(tag string) string {
	if t, ok := titles[tag]; ok {
		return t
	}
	return tag
}

// Ideas returns up to five build ideas for tag, falling back to the misc
// entry. The result is a fresh slice.
func Ideas(tag string) []radar.Idea {
	list, ok := ideas[tag]
	if !ok {
		list = ideas[DefaultTag]
	}
	if len(list) > maxIdeas {
		list = list[:maxIdeas]
	}
	return append([]radar.Idea(nil), list...)
}

package legal

import (
	"time"

	"mayhouse/models"
)

const termsContent = `<div class="legal-document">
<h2>Terms &amp; Conditions for Mayhouse Hosts</h2>
<h3>1. Host responsibilities</h3>
<ul>
<li>Describe every experience accurately and run it as listed.</li>
<li>Keep travelers safe and follow local laws and regulations.</li>
<li>Treat every traveler with respect.</li>
</ul>
<h3>2. Bookings and payouts</h3>
<p>Travelers pay through Mayhouse. A platform fee of 5% is withheld from each booking and the remainder is paid out to the host after the experience is completed.</p>
<h3>3. Cancellations</h3>
<p>Hosts who cancel a scheduled run must do so through the dashboard so travelers are notified and refunded.</p>
<h3>4. Termination</h3>
<p>Mayhouse may suspend hosting privileges for repeated no-shows, safety complaints or misrepresentation.</p>
</div>`

const backgroundContent = `<div class="legal-document">
<h2>Background Verification Consent</h2>
<p>To keep travelers safe, Mayhouse verifies every host before their first experience goes live.</p>
<h3>What we check</h3>
<ul>
<li>Identity, using a government-issued ID</li>
<li>Current address</li>
<li>Criminal records, where the law allows it</li>
</ul>
<h3>Your data</h3>
<p>Verification data is encrypted, accessed only by the safety team and kept only as long as required. You may withdraw consent at any time; doing so ends your eligibility to host.</p>
</div>`

const privacyContent = `<div class="legal-document">
<h2>Privacy Policy</h2>
<p>Mayhouse stores the account details you give us, your bookings and, if you connect one, your wallet address.</p>
<p>We use this data to run bookings, pay hosts and keep the platform safe. We never sell it.</p>
<p>You can ask for a copy of your data or for its deletion by contacting support.</p>
</div>`

// DefaultPolicies are seeded at startup; seeding is idempotent per type and version.
func DefaultPolicies(now time.Time) []models.LegalPolicy {
	return []models.LegalPolicy{
		{
			ID:            "terms-v1-2025",
			PolicyType:    models.PolicyTermsConditions,
			Title:         "Terms & Conditions for Mayhouse Hosts",
			Version:       "1.0",
			Content:       termsContent,
			Summary:       "Agreement outlining host responsibilities, platform usage, and service terms.",
			EffectiveDate: now,
			LastUpdated:   now,
			Status:        models.PolicyActive,
		},
		{
			ID:            "background-v1-2025",
			PolicyType:    models.PolicyBackgroundVerification,
			Title:         "Background Verification Consent",
			Version:       "1.0",
			Content:       backgroundContent,
			Summary:       "Consent for identity verification and background checks for host safety.",
			EffectiveDate: now,
			LastUpdated:   now,
			Status:        models.PolicyActive,
		},
		{
			ID:            "privacy-v1-2025",
			PolicyType:    models.PolicyPrivacyPolicy,
			Title:         "Mayhouse Privacy Policy",
			Version:       "1.0",
			Content:       privacyContent,
			Summary:       "How Mayhouse collects, uses and protects personal data.",
			EffectiveDate: now,
			LastUpdated:   now,
			Status:        models.PolicyActive,
		},
	}
}

package generation

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

// 以下为确定性的兜底生成器，后端不可用或结果不合格时使用

func fallbackPhishingEmail(f Facts) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: security-alerts@%s.net\n", slug(f.Org))
	fmt.Fprintf(&sb, "To: %s\n", f.Email)
	sb.WriteString("Subject: Urgent: Verify Your Account - Immediate Action Required\n\n")
	fmt.Fprintf(&sb, "Dear %s,\n\n", f.Name)
	fmt.Fprintf(&sb, "Our systems detected unusual login activity associated with your account from %s. ", f.Location)
	sb.WriteString("As a precautionary measure, we have temporarily restricted access.\n\n")
	sb.WriteString("Please verify your identity within the next 24 hours to restore access:\n")
	fmt.Fprintf(&sb, "  > https://secure-verify.%s-portal.com/auth\n\n", slug(f.Org))
	sb.WriteString("Failure to verify will result in permanent account suspension.\n\n")
	fmt.Fprintf(&sb, "Regards,\nIT Security Team | %s\n", f.Org)
	sb.WriteString("[This is an automated security notification]")
	return sb.String()
}

func fallbackPhishingReport(f Facts) string {
	var sb strings.Builder
	sb.WriteString("=== THREAT INTELLIGENCE REPORT ===\n\n")
	sb.WriteString("EXPLOITABLE INFO DETECTED:\n")
	fmt.Fprintf(&sb, "  * Identity: %s\n", f.Name)
	fmt.Fprintf(&sb, "  * Organization: %s\n", f.Org)
	fmt.Fprintf(&sb, "  * Location: %s\n", f.Location)
	fmt.Fprintf(&sb, "  * Contact: %s\n\n", f.Email)
	sb.WriteString("SPEAR-PHISHING EMAIL:\n\n")
	sb.WriteString(fallbackPhishingEmail(f))
	sb.WriteString("\n\nATTACKER METHODOLOGY:\n")
	fmt.Fprintf(&sb, "An attacker would use the publicly available profile information to craft a targeted "+
		"pretext attack. By referencing %s's known affiliation with %s and current location in %s, "+
		"the attacker can build rapport and bypass standard skepticism, leading to credential theft "+
		"or malware delivery.", f.Name, f.Org, f.Location)
	return sb.String()
}

func fallbackSMS(f Facts) string {
	return fmt.Sprintf("[%s ALERT] Hi %s, we noticed unusual activity on your account. "+
		"Tap to secure it now: https://bit.ly/3xReset\nReply STOP to opt out.", f.Org, f.FirstName())
}

func fallbackLinkedIn(f Facts) string {
	return fmt.Sprintf("Hi %s,\n\n"+
		"I came across your profile and was really impressed by your work at %s. "+
		"We're currently building out an exclusive advisory board for senior professionals in your space "+
		"and would love to discuss a confidential opportunity.\n\n"+
		"Could we schedule a quick 15-min call this week? I can share a brief overview in a secure document: "+
		"https://share.notion-docs.io/brief-%s\n\n"+
		"Looking forward to connecting,\nMichael Torres | Head of Talent, Nexus Capital",
		f.FirstName(), f.Org, slug(f.Name))
}

func fallbackVoice(f Facts) string {
	var sb strings.Builder
	sb.WriteString("-- VISHING SCRIPT --\n")
	fmt.Fprintf(&sb, "CALLER: \"Hello, may I speak with %s?\"\n", f.Name)
	sb.WriteString("TARGET: \"Speaking.\"\n")
	fmt.Fprintf(&sb, "CALLER: \"Hi %s, this is James from IT Security at %s. "+
		"We've detected unauthorized login attempts on your account originating from %s. "+
		"I need to verify your identity and reset your credentials to prevent a breach.\"\n",
		f.FirstName(), f.Org, f.Location)
	sb.WriteString("TARGET: \"Oh, um, sure.\"\n")
	sb.WriteString("CALLER: \"Great. I'll send you a one-time code to your registered number. " +
		"Please read it back to me as soon as you receive it. This is time-sensitive.\"\n")
	sb.WriteString("[ATTACK: OTP interception / account takeover]")
	return sb.String()
}

var hygieneItems = []string{
	"Enable Multi-Factor Authentication (MFA) on all accounts.\n   Use an authenticator app, not SMS codes.",
	"Set all social profiles to private. Audit friend/connection lists quarterly.",
	"Use unique, complex passwords managed via a password manager (Bitwarden/1Password).",
	"Run a monthly OSINT self-audit: search your name, email, and phone in HaveIBeenPwned and Google.",
	"Enable login notifications and sign-in alerts on all corporate accounts.",
}

func hasVector(vectors []model.RiskVector, v model.RiskVector) bool {
	for _, x := range vectors {
		if x == v {
			return true
		}
	}
	return false
}

func fallbackMitigation(entities *model.EntityMap, vectors []model.RiskVector) string {
	var immediate []string
	if entities.Has(model.CategoryPerson) {
		immediate = append(immediate, "Remove full name from public bio or social posts. Use initials or first name only.")
	}
	if entities.Has(model.CategoryGPE) || hasVector(vectors, model.VectorLocation) {
		immediate = append(immediate, "Disable location services and remove geo-tags from social posts. Never share real-time whereabouts publicly.")
	}
	if entities.Has(model.CategoryOrg) || hasVector(vectors, model.VectorCorporate) {
		immediate = append(immediate, "Keep employment details vague. Avoid mentioning team size, tools, or internal project names publicly.")
	}
	if hasVector(vectors, model.VectorFamily) {
		immediate = append(immediate, "Do not mention family members, relationships, or children in public content.")
	}
	if hasVector(vectors, model.VectorTravel) {
		immediate = append(immediate, "Avoid posting travel plans in advance. Share travel photos only after returning.")
	}

	n := 0
	var sb strings.Builder
	sb.WriteString("IMMEDIATE ACTIONS\n\n")
	for _, item := range immediate {
		n++
		fmt.Fprintf(&sb, "%d. %s\n", n, item)
	}
	sb.WriteString("\nONGOING SECURITY PRACTICES\n\n")
	for _, item := range hygieneItems {
		n++
		fmt.Fprintf(&sb, "%d. %s\n", n, item)
	}

	vectorText := "General Exposure"
	if len(vectors) > 0 {
		vectorText = joinVectors(vectors)
	}
	sb.WriteString("\nRISK SUMMARY\n")
	fmt.Fprintf(&sb, "Detected risk vectors: %s\n", vectorText)
	fmt.Fprintf(&sb, "Entities found: %d across %d categories.\n", entities.Count(), entities.Len())
	sb.WriteString("Priority: Immediate OSINT footprint reduction recommended.")
	return sb.String()
}

func fallbackIndustry(role, industry string, vectors []model.RiskVector) string {
	sector := industry
	if sector == "" {
		sector = "corporate"
	}
	roleText := role
	if roleText == "" {
		roleText = "professional"
	}
	vectorText := "general exposure"
	if len(vectors) > 0 {
		vectorText = joinVectors(vectors)
	}
	return fmt.Sprintf("Profiles in the %s sector are frequent targets of Business Email Compromise (BEC) "+
		"and spear-phishing campaigns. %ss are particularly at risk due to their access to sensitive "+
		"systems and financial data. Detected risk vectors (%s) are commonly exploited in pretexting "+
		"attacks where adversaries impersonate IT support, HR, or senior management to extract "+
		"credentials or initiate fraudulent wire transfers. OSINT footprint reduction is the most "+
		"effective countermeasure for this profile.", sector, capitalize(roleText), vectorText)
}

func joinVectors(vectors []model.RiskVector) string {
	parts := make([]string, len(vectors))
	for i, v := range vectors {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// capitalize 首字母大写，其余小写
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

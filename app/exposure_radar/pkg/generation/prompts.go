package generation

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/exposure_radar/app/exposure_radar/pkg/model"
)

// head 按字符截断
func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func previewPrompt(text string) string {
	return "You are a penetration tester demonstrating social engineering risks.\n" +
		"Based on the following public content about a person, write a short realistic phishing email (8-12 lines).\n" +
		"Use specific details from the content (name, org, location) to make it convincing.\n" +
		"Include: From/To/Subject headers, a sense of urgency, and a fake link.\n\n" +
		"CONTENT:\n" + head(text, 1500)
}

func reportPrompt(text string) string {
	return "You are a cybersecurity analyst writing a threat intelligence report.\n" +
		"Analyze the following public content and:\n" +
		"1. List every piece of exploitable information found (name, org, location, family, travel)\n" +
		"2. Write a realistic spear-phishing email leveraging those details\n" +
		"3. Explain in 2-3 sentences how an attacker would use this for social engineering\n\n" +
		"CONTENT:\n" + head(text, 1800)
}

func emailPrompt(f Facts, text string) string {
	return fmt.Sprintf("Write a highly convincing spear-phishing email targeting %s at %s.\n"+
		"Use these details from their public content: location=%s.\n"+
		"Include From/To/Subject, urgency, and a fake verification link. Max 12 lines.\n"+
		"Content: %s", f.Name, f.Org, f.Location, head(text, 1200))
}

func smsPrompt(f Facts, text string) string {
	return fmt.Sprintf("Write a realistic smishing (SMS phishing) message targeting %s "+
		"from %s. Max 2 lines, include a short link. Use urgency.\n"+
		"Content: %s", f.FirstName(), f.Org, head(text, 600))
}

func linkedInPrompt(f Facts, text string) string {
	return fmt.Sprintf("Write a convincing LinkedIn InMail phishing message targeting %s "+
		"at %s. Pose as a recruiter or investor. Include a fake document link.\n"+
		"Content: %s", f.Name, f.Org, head(text, 600))
}

func voicePrompt(f Facts, text string) string {
	return fmt.Sprintf("Write a short vishing (voice phishing) call script targeting %s at %s.\n"+
		"Format as a dialogue. The attacker poses as IT support and extracts an OTP.\n"+
		"Content: %s", f.Name, f.Org, head(text, 600))
}

func mitigationPrompt(text string, vectors []model.RiskVector) string {
	vectorText := "General exposure"
	if len(vectors) > 0 {
		vectorText = joinVectors(vectors)
	}
	return "You are a senior cybersecurity consultant.\n" +
		"Based on the following content and risk vectors, provide a structured mitigation plan:\n" +
		"Risk Vectors: " + vectorText + "\n" +
		"Content: " + head(text, 800) + "\n\n" +
		"Format your response as numbered action items, grouped by: Immediate Actions, Ongoing Practices, Monitoring."
}

func industryPrompt(role, industry string) string {
	if industry == "" {
		industry = "general"
	}
	if role == "" {
		role = "professional"
	}
	return fmt.Sprintf("In 3-4 sentences, describe specific phishing and social engineering trends "+
		"targeting the %s sector for a person in a %s role. "+
		"Mention real-world attack tactics relevant to this profile.", industry, role)
}

func explanationPrompt(entities *model.EntityMap, role, industry string) string {
	var parts []string
	for _, c := range entities.Categories() {
		parts = append(parts, fmt.Sprintf("%s: %s", c, strings.Join(entities.Spans(c), ", ")))
	}
	return fmt.Sprintf("In 2-3 sentences, explain which entities were found in this content and why each "+
		"poses a social engineering risk. Be specific and professional.\nEntities: {%s}\n"+
		"Context: role=%s, industry=%s", strings.Join(parts, "; "), orNone(role), orNone(industry))
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

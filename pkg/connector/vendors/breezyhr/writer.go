package breezyhr

import (
	"strings"

	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

// formatProfile turns a canonical profile into the Breezy candidate
// payload. The same payload serves both create and update. The configured
// origin and cover letter are injected on every candidate.
func formatProfile(p *models.Profile, origin, coverLetter string) (models.Raw, error) {
	if p.Info.Email == "" {
		return nil, errors.New(errors.ErrorTypeMapping, "profile has no email").
			WithDetail("reference", p.Reference)
	}

	payload := models.Raw{
		"name":          fullName(p.Info),
		"email_address": p.Info.Email,
		"phone_number":  p.Info.Phone,
		"summary":       p.Text,
		"origin":        origin,
		"work_history":  workHistory(p.Experiences),
		"education":     educationHistory(p.Educations),
	}

	if coverLetter != "" {
		payload["cover_letter"] = coverLetter
	}
	if p.Info.Location != nil && p.Info.Location.Text != "" {
		payload["address"] = p.Info.Location.Text
	}
	if profiles := socialProfiles(p.Info.URLs); len(profiles) > 0 {
		payload["social_profiles"] = profiles
	}
	if len(p.Tags) > 0 {
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			tags = append(tags, t.Name)
		}
		payload["tags"] = tags
	}

	return payload, nil
}

func fullName(info models.ProfileInfo) string {
	if info.FullName != "" {
		return info.FullName
	}
	return strings.TrimSpace(info.FirstName + " " + info.LastName)
}

func workHistory(experiences []models.Experience) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(experiences))
	for _, e := range experiences {
		entry := map[string]interface{}{
			"company_name": e.Company,
			"title":        e.Title,
			"summary":      e.Description,
		}
		if e.DateStart != "" {
			entry["start_date"] = e.DateStart
		}
		if e.DateEnd != "" {
			entry["end_date"] = e.DateEnd
		}
		out = append(out, entry)
	}
	return out
}

func educationHistory(educations []models.Education) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(educations))
	for _, e := range educations {
		entry := map[string]interface{}{
			"school_name": e.School,
			"degree":      e.Title,
		}
		if e.DateStart != "" {
			entry["start_date"] = e.DateStart
		}
		if e.DateEnd != "" {
			entry["end_date"] = e.DateEnd
		}
		out = append(out, entry)
	}
	return out
}

func socialProfiles(urls []models.ProfileURL) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u.URL != "" {
			out = append(out, u.URL)
		}
	}
	return out
}

package smartrecruiters

import (
	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

// The candidate write schema rejects null values in several places, so
// missing fields take these placeholders instead of being omitted.
const (
	undefinedValue = "Undefined"
	undefinedDate  = "XXXX"
)

// formatProfile turns a canonical profile into the candidate payload for
// POST /jobs/{id}/candidates.
func formatProfile(p *models.Profile) (models.Raw, error) {
	if p.Info.Email == "" {
		return nil, errors.New(errors.ErrorTypeMapping, "profile has no email").
			WithDetail("reference", p.Reference)
	}

	payload := models.Raw{
		"firstName":   orUndefined(p.Info.FirstName),
		"lastName":    orUndefined(p.Info.LastName),
		"email":       p.Info.Email,
		"phoneNumber": p.Info.Phone,
		"location":    writeLocation(p.Info.Location),
		"web":         webLinks(p.Info.URLs),
		"tags":        tagValues(p.Tags),
		"education":   writeEducations(p.Educations),
		"experience":  writeExperiences(p.Experiences),
	}
	return payload, nil
}

// writeLocation fills the write-schema location. Coordinates default to 0
// here even though the read path leaves them unset.
func writeLocation(loc *models.Location) map[string]interface{} {
	out := map[string]interface{}{
		"country": undefinedValue,
		"region":  undefinedValue,
		"city":    undefinedValue,
		"lat":     0.0,
		"lng":     0.0,
	}
	if loc == nil {
		return out
	}
	if loc.Text != "" {
		out["city"] = loc.Text
	}
	if loc.Lat != nil {
		out["lat"] = *loc.Lat
	}
	if loc.Lng != nil {
		out["lng"] = *loc.Lng
	}
	return out
}

func webLinks(urls []models.ProfileURL) map[string]interface{} {
	out := make(map[string]interface{})
	for _, u := range urls {
		switch u.Type {
		case "linkedin", "facebook", "twitter", "github":
			out[u.Type] = u.URL
		default:
			if _, taken := out["website"]; !taken {
				out["website"] = u.URL
			}
		}
	}
	return out
}

func tagValues(tags []models.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Value)
	}
	return out
}

func writeEducations(educations []models.Education) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(educations))
	for _, e := range educations {
		out = append(out, map[string]interface{}{
			"institution": orUndefined(e.School),
			"degree":      orUndefined(e.Title),
			"major":       undefinedValue,
			"current":     false,
			"location":    undefinedValue,
			"startDate":   orUndefinedDate(e.DateStart),
			"endDate":     orUndefinedDate(e.DateEnd),
			"description": e.Description,
		})
	}
	return out
}

func writeExperiences(experiences []models.Experience) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(experiences))
	for _, e := range experiences {
		location := undefinedValue
		if e.Location != nil && e.Location.Text != "" {
			location = e.Location.Text
		}
		out = append(out, map[string]interface{}{
			"title":       orUndefined(e.Title),
			"company":     orUndefined(e.Company),
			"current":     false,
			"startDate":   orUndefinedDate(e.DateStart),
			"endDate":     orUndefinedDate(e.DateEnd),
			"location":    location,
			"description": e.Description,
		})
	}
	return out
}

func orUndefined(s string) string {
	if s == "" {
		return undefinedValue
	}
	return s
}

func orUndefinedDate(s string) string {
	if s == "" {
		return undefinedDate
	}
	return s
}

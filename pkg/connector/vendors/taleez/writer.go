package taleez

import (
	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

// formatProfile turns a canonical profile into the candidate payload for
// POST /0/candidates.
func formatProfile(p *models.Profile) (models.Raw, error) {
	if p.Info.Email == "" {
		return nil, errors.New(errors.ErrorTypeMapping, "profile has no email").
			WithDetail("reference", p.Reference)
	}

	payload := models.Raw{
		"firstName": p.Info.FirstName,
		"lastName":  p.Info.LastName,
		"mail":      p.Info.Email,
		"phone":     p.Info.Phone,
		"lang":      "en",
	}

	if links := socialLinks(p.Info.URLs); len(links) > 0 {
		payload["socialLinks"] = links
	}
	if len(p.Attachments) > 0 && p.Attachments[0].PublicURL != "" {
		payload["initialReferrer"] = p.Attachments[0].PublicURL
	}

	return payload, nil
}

func socialLinks(urls []models.ProfileURL) map[string]interface{} {
	out := make(map[string]interface{})
	for _, u := range urls {
		if u.URL == "" {
			continue
		}
		switch u.Type {
		case "linkedin", "twitter", "github", "website":
			out[u.Type] = u.URL
		}
	}
	return out
}

package breezyhr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yass1337/hrflow-connectors/pkg/models"
)

func fullProfile() *models.Profile {
	return &models.Profile{
		Reference: "p1",
		Info: models.ProfileInfo{
			FirstName: "Margaret",
			LastName:  "Hamilton",
			Email:     "margaret@x.io",
			Phone:     "+1 555 0101",
			Location:  &models.Location{Text: "Boston"},
			URLs: []models.ProfileURL{
				{Type: "linkedin", URL: "https://linkedin.example/margaret"},
			},
		},
		Text: "Led the on-board flight software team.",
		Tags: []models.Tag{{Name: "apollo", Value: "11"}},
		Experiences: []models.Experience{
			{Title: "Director", Company: "Instrumentation Lab", DateStart: "1965-01-01T00:00:00Z"},
		},
		Educations: []models.Education{
			{School: "Earlham College", Title: "BA Mathematics"},
		},
	}
}

// The same profile must always produce the same payload.
func TestFormatProfileIsDeterministic(t *testing.T) {
	p := fullProfile()

	first, err := formatProfile(p, "sourced", "Hello team")
	require.NoError(t, err)
	second, err := formatProfile(p, "sourced", "Hello team")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFormatProfileDoesNotMutateInput(t *testing.T) {
	p := fullProfile()
	want := fullProfile()

	_, err := formatProfile(p, "sourced", "")
	require.NoError(t, err)

	assert.Equal(t, want, p)
}

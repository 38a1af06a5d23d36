package smartrecruiters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yass1337/hrflow-connectors/pkg/models"
)

func fullProfile() *models.Profile {
	lat := 48.85
	return &models.Profile{
		Reference: "p1",
		Info: models.ProfileInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@x.io",
			Phone:     "+33 1 00 00 00 00",
			Location:  &models.Location{Text: "Paris", Lat: &lat},
			URLs: []models.ProfileURL{
				{Type: "linkedin", URL: "https://linkedin.example/ada"},
				{Type: "portfolio", URL: "https://ada.example"},
			},
		},
		Tags: []models.Tag{{Name: "source", Value: "referral"}},
		Educations: []models.Education{
			{School: "Polytechnique", Title: "MSc", DateStart: "2010-09-01T00:00:00Z"},
		},
		Experiences: []models.Experience{
			{Title: "Engineer", Company: "Analytical Engines Ltd"},
		},
	}
}

// The same profile must always produce the same payload: the write mapping
// is pure, so repeated pushes of unchanged input are byte-stable.
func TestFormatProfileIsDeterministic(t *testing.T) {
	p := fullProfile()

	first, err := formatProfile(p)
	require.NoError(t, err)
	second, err := formatProfile(p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFormatProfileDoesNotMutateInput(t *testing.T) {
	p := fullProfile()
	want := fullProfile()

	_, err := formatProfile(p)
	require.NoError(t, err)

	assert.Equal(t, want, p)
}

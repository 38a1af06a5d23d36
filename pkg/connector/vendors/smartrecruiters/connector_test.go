package smartrecruiters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yass1337/hrflow-connectors/pkg/config"
	"github.com/yass1337/hrflow-connectors/pkg/connector/paginate"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

func testConfig(endpoint string) *config.Config {
	cfg := config.New("test", Name)
	cfg.Endpoint = endpoint
	cfg.Read.PageSize = 2
	cfg.Write.JobID = "J1"
	cfg.Security.Credentials["api_key"] = "token-123"
	cfg.Reliability.RateLimitPerSec = 0
	cfg.Reliability.CircuitBreaker = false
	return cfg
}

func listedJob(id string) map[string]interface{} {
	return map[string]interface{}{"id": id}
}

func fullJob(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"refNumber": "REF-" + id,
		"title":     "Engineer " + id,
		"createdOn": "2021-05-01T09:00:00.000Z",
		"updatedOn": "2021-05-02T09:00:00.000Z",
		"status":    "SOURCING",
		"location": map[string]interface{}{
			"city":      "Berlin",
			"latitude":  "52.52",
			"longitude": "13.40",
		},
		"jobAd": map[string]interface{}{
			"sections": map[string]interface{}{
				"jobDescription": map[string]interface{}{
					"title": "Job description",
					"text":  "<p>Write Go&nbsp;services</p>",
				},
			},
		},
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token-123", r.Header.Get("X-SmartToken"))
		require.Equal(t, "2", r.URL.Query().Get("limit"))

		var page map[string]interface{}
		switch r.URL.Query().Get("pageId") {
		case "":
			page = map[string]interface{}{
				"nextPageId": "p2",
				"content":    []interface{}{listedJob("j1"), listedJob("j2")},
			}
		case "p2":
			page = map[string]interface{}{
				"nextPageId": "p3",
				"content":    []interface{}{listedJob("j3")},
			}
		default:
			page = map[string]interface{}{
				"nextPageId": "",
				"content":    []interface{}{},
			}
		}
		_ = json.NewEncoder(w).Encode(page)
	})

	mux.HandleFunc("/jobs/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/jobs/"):]
		_ = json.NewEncoder(w).Encode(fullJob(id))
	})

	return httptest.NewServer(mux)
}

func TestPullJobsEndToEnd(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	it, err := c.Reader(context.Background())
	require.NoError(t, err)

	raws, err := paginate.Collect(context.Background(), it)
	require.NoError(t, err)
	require.Len(t, raws, 3)

	mapper := c.Mapper()
	job, err := mapper.ToCanonical(raws[0])
	require.NoError(t, err)

	assert.Equal(t, "REF-j1", job.Reference)
	assert.Equal(t, "Engineer j1", job.Name)
	assert.Equal(t, "2021-05-01T09:00:00Z", job.CreatedAt)
	assert.Equal(t, "2021-05-02T09:00:00Z", job.UpdatedAt)
	assert.Equal(t, "Write Go services", job.Summary)

	require.NotNil(t, job.Location)
	assert.Equal(t, "Berlin", job.Location.Text)
	require.NotNil(t, job.Location.Lat)
	assert.InDelta(t, 52.52, *job.Location.Lat, 0.001)

	require.Len(t, job.Sections, 1)
	assert.Equal(t, "smartrecruiters_job_description", job.Sections[0].Name)

	var statusTag *models.Tag
	for i := range job.Tags {
		if job.Tags[i].Name == "smartrecruiters_status" {
			statusTag = &job.Tags[i]
		}
	}
	require.NotNil(t, statusTag)
	assert.Equal(t, "SOURCING", statusTag.Value)
}

func TestPushCreatesCandidateUnderJob(t *testing.T) {
	var payload map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/J1/candidates", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "token-123", r.Header.Get("X-SmartToken"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "cand-1"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	writer, err := c.Writer(context.Background())
	require.NoError(t, err)

	outcomes, err := writer.Write(context.Background(), []*models.Profile{{
		Reference: "p1",
		Info: models.ProfileInfo{
			FirstName: "Ada",
			Email:     "ada@x.io",
		},
	}})
	require.NoError(t, err)

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.StatusCreated, outcomes[0].Status)
	assert.Equal(t, "cand-1", outcomes[0].VendorID)

	// Write-schema defaults: missing fields become placeholders and
	// coordinates default to zero.
	assert.Equal(t, "Ada", payload["firstName"])
	assert.Equal(t, "Undefined", payload["lastName"])
	loc, ok := payload["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Undefined", loc["city"])
	assert.EqualValues(t, 0, loc["lat"])
}

func TestWriterRequiresJobID(t *testing.T) {
	cfg := testConfig("http://unused.invalid")
	cfg.Write.JobID = ""

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Writer(context.Background())
	assert.Error(t, err)
}

package bulk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yass1337/hrflow-connectors/pkg/errors"
	"github.com/yass1337/hrflow-connectors/pkg/models"
)

func profile(ref, email string) *models.Profile {
	return &models.Profile{
		Reference: ref,
		Info:      models.ProfileInfo{Email: email},
	}
}

func okMap(p *models.Profile) (models.Raw, error) {
	if p.Info.Email == "" {
		return nil, errors.New(errors.ErrorTypeMapping, "no email")
	}
	return models.Raw{"email": p.Info.Email}, nil
}

func TestWriteCreatesEveryProfile(t *testing.T) {
	var created []string
	w := NewWriter(Strategy{
		Vendor: "acme",
		Map:    okMap,
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			created = append(created, p.Reference)
			return "v-" + p.Reference, nil
		},
	})

	outcomes, err := w.Write(context.Background(), []*models.Profile{
		profile("a", "a@x.io"),
		profile("b", "b@x.io"),
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.Equal(t, []string{"a", "b"}, created)
	for i, o := range outcomes {
		assert.Equal(t, models.StatusCreated, o.Status)
		assert.Equal(t, created[i], o.Reference)
		assert.Equal(t, "v-"+o.Reference, o.VendorID)
	}
}

func TestWriteIsolatesMappingFailures(t *testing.T) {
	w := NewWriter(Strategy{
		Vendor: "acme",
		Map:    okMap,
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			return "v-" + p.Reference, nil
		},
	})

	outcomes, err := w.Write(context.Background(), []*models.Profile{
		profile("a", "a@x.io"),
		profile("bad", ""),
		profile("c", "c@x.io"),
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 3)
	assert.Equal(t, models.StatusCreated, outcomes[0].Status)
	assert.Equal(t, models.StatusFailed, outcomes[1].Status)
	assert.True(t, errors.IsType(outcomes[1].Reason, errors.ErrorTypeMapping))
	assert.Equal(t, models.StatusCreated, outcomes[2].Status)
}

func TestWriteIsolatesCreateFailures(t *testing.T) {
	w := NewWriter(Strategy{
		Vendor: "acme",
		Map:    okMap,
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			if p.Reference == "b" {
				return "", errors.New(errors.ErrorTypeTransport, "vendor rejected")
			}
			return "v-" + p.Reference, nil
		},
	})

	outcomes, err := w.Write(context.Background(), []*models.Profile{
		profile("a", "a@x.io"),
		profile("b", "b@x.io"),
		profile("c", "c@x.io"),
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 3)
	assert.Equal(t, models.StatusCreated, outcomes[0].Status)
	assert.Equal(t, models.StatusFailed, outcomes[1].Status)
	assert.Equal(t, models.StatusCreated, outcomes[2].Status)
}

func TestWriteUpsertUpdatesExisting(t *testing.T) {
	var updated string
	w := NewWriter(Strategy{
		Vendor: "acme",
		Map:    okMap,
		Lookup: func(ctx context.Context, p *models.Profile) (string, bool, error) {
			if p.Info.Email == "known@x.io" {
				return "existing-1", true, nil
			}
			return "", false, nil
		},
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			return "new-1", nil
		},
		Update: func(ctx context.Context, vendorID string, payload models.Raw, p *models.Profile) error {
			updated = vendorID
			return nil
		},
	})

	outcomes, err := w.Write(context.Background(), []*models.Profile{
		profile("a", "known@x.io"),
		profile("b", "new@x.io"),
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.Equal(t, models.StatusUpdated, outcomes[0].Status)
	assert.Equal(t, "existing-1", outcomes[0].VendorID)
	assert.Equal(t, "existing-1", updated)
	assert.Equal(t, models.StatusCreated, outcomes[1].Status)
	assert.Equal(t, "new-1", outcomes[1].VendorID)
}

func TestWriteLookupFailureAbortsBatch(t *testing.T) {
	creates := 0
	w := NewWriter(Strategy{
		Vendor: "acme",
		Map:    okMap,
		Lookup: func(ctx context.Context, p *models.Profile) (string, bool, error) {
			if p.Reference == "b" {
				return "", false, errors.New(errors.ErrorTypeConnection, "search endpoint down")
			}
			return "", false, nil
		},
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			creates++
			return "v", nil
		},
	})

	outcomes, err := w.Write(context.Background(), []*models.Profile{
		profile("a", "a@x.io"),
		profile("b", "b@x.io"),
		profile("c", "c@x.io"),
	})

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeItemWrite))
	// The first item completed before the abort; the third never ran.
	assert.Len(t, outcomes, 1)
	assert.Equal(t, 1, creates)
}

func TestWriteAssociationFailureDoesNotUndoCreate(t *testing.T) {
	w := NewWriter(Strategy{
		Vendor: "acme",
		Map:    okMap,
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			return "v-1", nil
		},
		Associate: func(ctx context.Context, vendorID string, p *models.Profile) error {
			return errors.New(errors.ErrorTypeTransport, "attach failed")
		},
	})

	outcomes, err := w.Write(context.Background(), []*models.Profile{profile("a", "a@x.io")})
	require.NoError(t, err)

	require.Len(t, outcomes, 1)
	assert.Equal(t, models.StatusCreated, outcomes[0].Status)
	assert.Equal(t, "v-1", outcomes[0].VendorID)
	assert.True(t, outcomes[0].AssociationFailed)
}

func TestWriteCanceledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWriter(Strategy{
		Vendor: "acme",
		Map:    okMap,
		Create: func(ctx context.Context, payload models.Raw, p *models.Profile) (string, error) {
			t.Fatal("create must not run after cancellation")
			return "", nil
		},
	})

	outcomes, err := w.Write(ctx, []*models.Profile{profile("a", "a@x.io")})
	require.Error(t, err)
	assert.Empty(t, outcomes)
}

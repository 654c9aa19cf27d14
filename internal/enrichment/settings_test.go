package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/octobees/contact-enricher/internal/config"
	"github.com/octobees/contact-enricher/internal/entity"
)

func TestSettings_HunterMinScore(t *testing.T) {
	cases := map[string]struct {
		configured int
		want       int
	}{
		"unset":    {configured: 0, want: DefaultHunterMinScore},
		"negative": {configured: -5, want: DefaultHunterMinScore},
		"custom":   {configured: 60, want: 60},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := Settings{HunterMinScore: tc.configured}
			assert.Equal(t, tc.want, s.hunterMinScore())
		})
	}
}

func TestFromConfig_ZeroHunterMinScoreKeepsDefaultThreshold(t *testing.T) {
	scores := map[string]int{"Low": 25, "High": 31}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first := r.URL.Query().Get("first_name")
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"data":{"email":"%s@acme.com","score":%d,"position":"CTO"}}`, first, scores[first])
	}))
	defer srv.Close()

	store := newMemStore(
		entity.Contact{ID: "c1", FullName: "Low Score", CompanyDomain: strptr("acme.com")},
		entity.Contact{ID: "c2", FullName: "High Score", CompanyDomain: strptr("acme.com")},
	)
	o := FromConfig(config.EnrichmentConfig{
		HunterAPIKey:   "hk",
		HunterBaseURL:  srv.URL,
		PageSize:       3,
		MaxAttempts:    1,
		HunterMinScore: 0,
	}, store, WithLogger(zap.NewNop()))

	require.Equal(t, []ProviderName{ProviderHunter}, o.Enabled())
	res, err := o.Run(context.Background(), Request{OwnerID: "user-1"})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)

	low := store.get("c1")
	assert.Nil(t, low.WorkEmail)
	require.NotNil(t, low.Position)
	assert.Equal(t, "CTO", *low.Position)

	high := store.get("c2")
	require.NotNil(t, high.WorkEmail)
	assert.Equal(t, "high@acme.com", *high.WorkEmail)
}

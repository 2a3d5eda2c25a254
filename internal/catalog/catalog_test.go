package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthledger/internal/catalog"
)

func TestStatic_Points(t *testing.T) {
	c := catalog.Static{
		"newsletter_signup": 50,
		"twitter_follow":    10,
	}

	assert.Equal(t, 50, c.Points("newsletter_signup"))
	assert.Equal(t, 10, c.Points("twitter_follow"))
	// Actions absent from the catalog are worth nothing.
	assert.Equal(t, 0, c.Points("unknown_action"))
}

func TestParseStatic(t *testing.T) {
	c, err := catalog.ParseStatic(map[string]string{
		"newsletter_signup": "50",
		"facebook_visit":    "0",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, c.Points("newsletter_signup"))
	assert.Equal(t, 0, c.Points("facebook_visit"))
}

func TestParseStatic_RejectsBadValues(t *testing.T) {
	_, err := catalog.ParseStatic(map[string]string{"newsletter_signup": "fifty"})
	assert.Error(t, err)

	_, err = catalog.ParseStatic(map[string]string{"newsletter_signup": "-5"})
	assert.Error(t, err)
}

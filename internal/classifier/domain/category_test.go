package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Severity(t *testing.T) {
	tests := []struct {
		category Category
		expected Severity
	}{
		{CreditCard, SeverityCritical},
		{PrivateKey, SeverityCritical},
		{CloudProviderKey, SeverityCritical},
		{DatabaseCredential, SeverityCritical},
		{APIKey, SeverityHigh},
		{BearerToken, SeverityHigh},
		{IPAddress, SeverityLow},
		{Category("unknown"), SeverityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.Severity())
		})
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
		assert.NotEqual(t, string(c), c.DisplayName())
	}
	assert.False(t, Category("nope").Valid())
	assert.Equal(t, "nope", Category("nope").DisplayName())
}

func TestSeverity_Rank(t *testing.T) {
	assert.True(t, SeverityLow.Less(SeverityMedium))
	assert.True(t, SeverityMedium.Less(SeverityHigh))
	assert.True(t, SeverityHigh.Less(SeverityCritical))
	assert.False(t, SeverityCritical.Less(SeverityLow))
	assert.Equal(t, 0, Severity("bogus").Rank())
	assert.Equal(t, "high", SeverityHigh.String())
}

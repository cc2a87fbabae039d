package records

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ThreatMonitor/internal/domain"
)

func TestParseEntities(t *testing.T) {
	t.Parallel()

	got := ParseEntities("PER: Jane Doe | LOC: Nairobi | ORG: UN")
	assert.Equal(t, []string{"Jane Doe"}, got.Persons)
	assert.Equal(t, []string{"Nairobi"}, got.Locations)
	assert.Equal(t, []string{"UN"}, got.Organizations)
}

func TestParseEntitiesDegradesToEmpty(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "garbage", " | | ", "per: lowercase", "MISC: thing"} {
		got := ParseEntities(input)
		assert.NotNil(t, got.Persons, input)
		assert.Empty(t, got.Persons, input)
		assert.Empty(t, got.Locations, input)
		assert.Empty(t, got.Organizations, input)
	}
}

func TestParseEntitiesKeepsOrderAndNoSpaceVariant(t *testing.T) {
	t.Parallel()

	got := ParseEntities("LOC:Mombasa|PER:  A  |junk|LOC: Kisumu ||ORG:KBC")
	assert.Equal(t, []string{"A"}, got.Persons)
	assert.Equal(t, []string{"Mombasa", "Kisumu"}, got.Locations)
	assert.Equal(t, []string{"KBC"}, got.Organizations)
}

func TestNormalizeSentiment(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.SentimentPositive, NormalizeSentiment("Positive"))
	assert.Equal(t, domain.SentimentNeutral, NormalizeSentiment("Neutral"))
	assert.Equal(t, domain.SentimentNone, NormalizeSentiment("positive"))
	assert.Equal(t, domain.SentimentNone, NormalizeSentiment(""))
}

func TestEnrichAllDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := []domain.Article{
		{ID: 1, RawEntities: "PER: Jane", RawSentiment: "Negative"},
	}

	out := EnrichAll(input)

	assert.Equal(t, []string{"Jane"}, out[0].Entities.Persons)
	assert.Equal(t, domain.SentimentNegative, out[0].Sentiment)
	assert.Nil(t, input[0].Entities.Persons)
	assert.Equal(t, domain.SentimentNone, input[0].Sentiment)
}

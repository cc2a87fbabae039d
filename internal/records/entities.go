package records

import (
	"strings"

	"ThreatMonitor/internal/domain"
)

const (
	entityDelimiter    = "|"
	prefixPerson       = "PER:"
	prefixLocation     = "LOC:"
	prefixOrganization = "ORG:"
)

// ParseEntities splits a pipe-delimited annotation such as
// "PER: Jane Doe | LOC: Nairobi" into typed lists. Parts without a known
// prefix are dropped; the result lists are never nil.
func ParseEntities(annotation string) domain.EntityList {
	list := domain.EntityList{
		Persons:       []string{},
		Locations:     []string{},
		Organizations: []string{},
	}

	for _, part := range strings.Split(annotation, entityDelimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		switch {
		case strings.HasPrefix(part, prefixPerson):
			list.Persons = append(list.Persons, strings.TrimSpace(part[len(prefixPerson):]))
		case strings.HasPrefix(part, prefixLocation):
			list.Locations = append(list.Locations, strings.TrimSpace(part[len(prefixLocation):]))
		case strings.HasPrefix(part, prefixOrganization):
			list.Organizations = append(list.Organizations, strings.TrimSpace(part[len(prefixOrganization):]))
		}
	}

	return list
}

// NormalizeSentiment keeps only the three labels the dashboard understands.
func NormalizeSentiment(raw string) domain.Sentiment {
	switch domain.Sentiment(raw) {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		return domain.Sentiment(raw)
	default:
		return domain.SentimentNone
	}
}

// Enrich returns a copy of the article with parsed entities and sentiment label.
func Enrich(article domain.Article) domain.Article {
	article.Entities = ParseEntities(article.RawEntities)
	article.Sentiment = NormalizeSentiment(article.RawSentiment)
	return article
}

// EnrichAll enriches every article into a new slice.
func EnrichAll(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	for i, article := range articles {
		out[i] = Enrich(article)
	}
	return out
}

package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"ThreatMonitor/internal/domain"
)

const countSuffix = "_count"

var sentimentCountColumns = map[string]string{
	"positive_count": string(domain.SentimentPositive),
	"negative_count": string(domain.SentimentNegative),
	"neutral_count":  string(domain.SentimentNeutral),
}

// snapshotFromRow maps a dashboard row onto a snapshot. Columns whose name
// contains a dot are per-publisher article counts.
func snapshotFromRow(row map[string]any) (*domain.DashboardSnapshot, error) {
	snap := &domain.DashboardSnapshot{
		CategoryCounts:  map[string]int64{},
		SentimentCounts: map[string]int64{},
		SourceCounts:    map[string]int64{},
	}

	for column, value := range row {
		var err error
		switch {
		case column == "date":
			snap.Date = asString(value)
		case column == "updated_at":
			snap.UpdatedAt = domain.ParseTimestamp(asString(value))
		case column == "total_articles":
			snap.TotalArticles, err = asInt(value)
		case column == "articles_today":
			snap.ArticlesToday, err = asInt(value)
		case column == "articles_this_week":
			snap.ArticlesThisWeek, err = asInt(value)
		case column == "avg_sentiment_score":
			snap.AvgSentimentScore, err = asFloat(value)
		case column == "person_mentions":
			snap.PersonMentions, err = asStrings(value)
		case column == "location_mentions":
			snap.LocationMentions, err = asStrings(value)
		case column == "organization_mentions":
			snap.OrganizationMentions, err = asStrings(value)
		case strings.Contains(column, "."):
			snap.SourceCounts[column], err = asInt(value)
		case strings.HasSuffix(column, countSuffix):
			var n int64
			n, err = asInt(value)
			if label, ok := sentimentCountColumns[column]; ok {
				snap.SentimentCounts[label] = n
			} else {
				snap.CategoryCounts[strings.TrimSuffix(column, countSuffix)] = n
			}
		}
		if err != nil {
			return nil, fmt.Errorf("dashboard column %s: %w", column, err)
		}
	}

	return snap, nil
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

func asInt(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte, string:
		f, err := strconv.ParseFloat(asString(v), 64)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", value)
	}
}

func asFloat(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case []byte, string:
		return strconv.ParseFloat(asString(v), 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", value)
	}
}

// asStrings decodes a Postgres text[] column.
func asStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return v, nil
	default:
		var arr pq.StringArray
		if err := arr.Scan(value); err != nil {
			return nil, err
		}
		return []string(arr), nil
	}
}

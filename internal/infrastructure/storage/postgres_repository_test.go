package storage

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ThreatMonitor/internal/ports"
	"ThreatMonitor/internal/records"
)

const articleSelect = "SELECT id, title, article_url, site_url, summary_snippet, publish_date, created_at, keyword_category, entities, sentiment, sentiment_score FROM scraped_articles"

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresRepository(sqlx.NewDb(db, "postgres"), Limits{}), mock
}

func articleRows() *sqlmock.Rows {
	return sqlmock.NewRows(articleColumns).
		AddRow(int64(2), "Second", "https://x/2", "https://www.the-star.co.ke", "snippet", "2026-10-14T09:00:00Z", "2026-10-14T09:05:00Z", "GVB", "PER: Jane | LOC: Nairobi", "Negative", 0.82).
		AddRow(int64(1), "First", "https://x/1", "https://www.the-star.co.ke", nil, nil, nil, nil, nil, nil, nil)
}

func TestPageArticlesQueries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query ports.PageQuery
		sql   string
		arg   string
	}{
		{
			name:  "category",
			query: ports.PageQuery{Slug: "gvb", Intent: records.IntentCategory},
			sql:   articleSelect + " WHERE keyword_category = $1 ORDER BY publish_date DESC NULLS LAST LIMIT 150",
			arg:   "GVB",
		},
		{
			name:  "entity",
			query: ports.PageQuery{Slug: "people", Intent: records.IntentEntity},
			sql:   articleSelect + " WHERE entities ILIKE $1 ORDER BY publish_date DESC NULLS LAST LIMIT 150",
			arg:   "%PER:%",
		},
		{
			name:  "source",
			query: ports.PageQuery{Slug: "the-star.co.ke archive", Intent: records.IntentSource, Limit: 20},
			sql:   articleSelect + " WHERE site_url ILIKE $1 ORDER BY publish_date DESC NULLS LAST LIMIT 20",
			arg:   "%the-star.co.ke%",
		},
		{
			name:  "source escapes wildcards",
			query: ports.PageQuery{Slug: "100%_news", Intent: records.IntentSource},
			sql:   articleSelect + " WHERE site_url ILIKE $1 ORDER BY publish_date DESC NULLS LAST LIMIT 150",
			arg:   `%100\%\_news%`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo, mock := newMockRepo(t)
			mock.ExpectQuery(regexp.QuoteMeta(tc.sql)).
				WithArgs(tc.arg).
				WillReturnRows(articleRows())

			articles, err := repo.PageArticles(context.Background(), tc.query)
			require.NoError(t, err)
			require.Len(t, articles, 2)

			assert.Equal(t, int64(2), articles[0].ID)
			assert.Equal(t, "GVB", articles[0].Category)
			assert.Equal(t, "PER: Jane | LOC: Nairobi", articles[0].RawEntities)
			require.NotNil(t, articles[0].PublishedAt)
			assert.Equal(t, 14, articles[0].PublishedAt.Day())
			require.NotNil(t, articles[0].SentimentScore)
			assert.InDelta(t, 0.82, *articles[0].SentimentScore, 1e-9)

			assert.Nil(t, articles[1].PublishedAt)
			assert.Nil(t, articles[1].SentimentScore)
			assert.Empty(t, articles[1].Summary)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPageArticlesRejectsUnknownEntity(t *testing.T) {
	t.Parallel()

	repo, _ := newMockRepo(t)
	_, err := repo.PageArticles(context.Background(), ports.PageQuery{Slug: "animals", Intent: records.IntentEntity})
	assert.Error(t, err)
}

func TestLatestArticles(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(articleSelect + " ORDER BY created_at DESC LIMIT 50")).
		WillReturnRows(articleRows())

	articles, err := repo.LatestArticles(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageArticlesPropagatesStoreError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT .* FROM scraped_articles").WillReturnError(sql.ErrConnDone)

	_, err := repo.PageArticles(context.Background(), ports.PageQuery{Slug: "crime", Intent: records.IntentCategory})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestThreats(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows(threatColumns).
		AddRow("t-1", "h1", "sextortion", "pay or else", "2026-10-14 08:00:00+00", 17.5, "critical_threat", "Negative", -0.9, true).
		AddRow("t-2", nil, "stalking", "seen near campus", nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, tweet_hash, keyword_trigger, content, created_at, threat_score, threat_category, sentiment_label, sentiment_score, location_boosted FROM twitter_threats ORDER BY created_at DESC LIMIT 1000")).
		WillReturnRows(rows)

	threats, err := repo.Threats(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, threats, 2)

	assert.Equal(t, "critical_threat", string(threats[0].Category))
	assert.True(t, threats[0].LocationBoosted)
	require.NotNil(t, threats[0].CreatedAt)
	assert.Equal(t, 8, threats[0].CreatedAt.Hour())
	assert.Nil(t, threats[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestDashboard(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{
		"date", "total_articles", "articles_today", "avg_sentiment_score", "gbv_count", "scams_count",
		"negative_count", "the-star.co.ke", "tuko.co.ke", "location_mentions", "updated_at",
	}).AddRow("2026-10-14", int64(120), int64(12), []byte("-0.25"), int64(30), nil,
		int64(40), int64(9), int64(0), "{Nairobi,Kisumu}", "2026-10-14T10:00:00Z")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM dashboard ORDER BY "date" DESC LIMIT 1`)).
		WillReturnRows(rows)

	snap, err := repo.LatestDashboard(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "2026-10-14", snap.Date)
	assert.Equal(t, int64(120), snap.TotalArticles)
	assert.Equal(t, int64(12), snap.ArticlesToday)
	assert.InDelta(t, -0.25, snap.AvgSentimentScore, 1e-9)
	assert.Equal(t, int64(30), snap.CategoryCounts["gbv"])
	assert.Equal(t, int64(0), snap.CategoryCounts["scams"])
	assert.Equal(t, int64(40), snap.SentimentCounts["Negative"])
	assert.Equal(t, map[string]int64{"the-star.co.ke": 9, "tuko.co.ke": 0}, snap.SourceCounts)
	assert.Equal(t, []string{"Nairobi", "Kisumu"}, snap.LocationMentions)
	assert.Equal(t, 1, snap.ActiveSources())
	require.NotNil(t, snap.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestDashboardEmptyTable(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT \\* FROM dashboard").
		WillReturnRows(sqlmock.NewRows([]string{"date"}))

	snap, err := repo.LatestDashboard(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestPing(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	err = Ping(context.Background(), sqlx.NewDb(db, "postgres"))
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestOpenIsLazy(t *testing.T) {
	t.Parallel()

	db, err := Open("postgres://nobody@127.0.0.1:1/none?sslmode=disable")
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

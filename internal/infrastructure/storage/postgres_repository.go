package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ThreatMonitor/internal/domain"
	"ThreatMonitor/internal/ports"
	"ThreatMonitor/internal/records"
)

const (
	articlesTable  = "scraped_articles"
	threatsTable   = "twitter_threats"
	dashboardTable = "dashboard"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "title", "article_url", "site_url", "summary_snippet", "publish_date",
	"created_at", "keyword_category", "entities", "sentiment", "sentiment_score",
}

var threatColumns = []string{
	"id", "tweet_hash", "keyword_trigger", "content", "created_at", "threat_score",
	"threat_category", "sentiment_label", "sentiment_score", "location_boosted",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Limits caps the number of rows each query returns.
type Limits struct {
	Page    int
	Latest  int
	Threats int
}

// DefaultLimits mirrors what the dashboard pages request.
func DefaultLimits() Limits {
	return Limits{Page: 150, Latest: 50, Threats: 1000}
}

// PostgresRepository reads dashboard records from the hosted Postgres database.
type PostgresRepository struct {
	db     *sqlx.DB
	limits Limits
}

var (
	_ ports.ArticleStore   = (*PostgresRepository)(nil)
	_ ports.ThreatStore    = (*PostgresRepository)(nil)
	_ ports.DashboardStore = (*PostgresRepository)(nil)
)

// Open prepares a Postgres handle. No connection is made until the first query or Ping.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Ping verifies the database is reachable.
func Ping(ctx context.Context, db *sqlx.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// NewPostgresRepository wires a sqlx.DB implementation. Zero limits fall back to defaults.
func NewPostgresRepository(db *sqlx.DB, limits Limits) *PostgresRepository {
	def := DefaultLimits()
	if limits.Page <= 0 {
		limits.Page = def.Page
	}
	if limits.Latest <= 0 {
		limits.Latest = def.Latest
	}
	if limits.Threats <= 0 {
		limits.Threats = def.Threats
	}
	return &PostgresRepository{db: db, limits: limits}
}

type articleRow struct {
	ID              int64           `db:"id"`
	Title           string          `db:"title"`
	ArticleURL      string          `db:"article_url"`
	SiteURL         string          `db:"site_url"`
	Summary         sql.NullString  `db:"summary_snippet"`
	PublishDate     sql.NullString  `db:"publish_date"`
	CreatedAt       sql.NullString  `db:"created_at"`
	KeywordCategory sql.NullString  `db:"keyword_category"`
	Entities        sql.NullString  `db:"entities"`
	Sentiment       sql.NullString  `db:"sentiment"`
	SentimentScore  sql.NullFloat64 `db:"sentiment_score"`
}

func (r articleRow) toDomain() domain.Article {
	article := domain.Article{
		ID:           r.ID,
		Title:        r.Title,
		URL:          r.ArticleURL,
		SiteURL:      r.SiteURL,
		Summary:      r.Summary.String,
		PublishedAt:  domain.ParseTimestamp(r.PublishDate.String),
		CreatedAt:    domain.ParseTimestamp(r.CreatedAt.String),
		Category:     r.KeywordCategory.String,
		RawEntities:  r.Entities.String,
		RawSentiment: r.Sentiment.String,
	}
	if r.SentimentScore.Valid {
		score := r.SentimentScore.Float64
		article.SentimentScore = &score
	}
	return article
}

type threatRow struct {
	ID              string          `db:"id"`
	TweetHash       sql.NullString  `db:"tweet_hash"`
	KeywordTrigger  sql.NullString  `db:"keyword_trigger"`
	Content         sql.NullString  `db:"content"`
	CreatedAt       sql.NullString  `db:"created_at"`
	ThreatScore     sql.NullFloat64 `db:"threat_score"`
	ThreatCategory  sql.NullString  `db:"threat_category"`
	SentimentLabel  sql.NullString  `db:"sentiment_label"`
	SentimentScore  sql.NullFloat64 `db:"sentiment_score"`
	LocationBoosted sql.NullBool    `db:"location_boosted"`
}

func (r threatRow) toDomain() domain.Threat {
	return domain.Threat{
		ID:              r.ID,
		TweetHash:       r.TweetHash.String,
		KeywordTrigger:  r.KeywordTrigger.String,
		Content:         r.Content.String,
		CreatedAt:       domain.ParseTimestamp(r.CreatedAt.String),
		Score:           r.ThreatScore.Float64,
		Category:        domain.ThreatCategory(r.ThreatCategory.String),
		SentimentLabel:  r.SentimentLabel.String,
		SentimentScore:  r.SentimentScore.Float64,
		LocationBoosted: r.LocationBoosted.Bool,
	}
}

// PageArticles selects the articles behind a category, entity or source page,
// newest first with undated rows last.
func (r *PostgresRepository) PageArticles(ctx context.Context, q ports.PageQuery) ([]domain.Article, error) {
	qb := psql.Select(articleColumns...).From(articlesTable)

	switch q.Intent {
	case records.IntentCategory:
		qb = qb.Where(sq.Eq{"keyword_category": records.StoreCategory(q.Slug)})
	case records.IntentEntity:
		prefix, ok := records.EntityPrefix(q.Slug)
		if !ok {
			return nil, fmt.Errorf("unknown entity page %q", q.Slug)
		}
		qb = qb.Where(sq.ILike{"entities": "%" + prefix + "%"})
	default:
		qb = qb.Where(sq.ILike{"site_url": "%" + likeEscaper.Replace(records.SourceDomain(q.Slug)) + "%"})
	}

	limit := q.Limit
	if limit <= 0 {
		limit = r.limits.Page
	}
	qb = qb.OrderBy("publish_date DESC NULLS LAST").Limit(uint64(limit))

	return r.selectArticles(ctx, qb)
}

// LatestArticles returns the most recently scraped articles.
func (r *PostgresRepository) LatestArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = r.limits.Latest
	}
	qb := psql.Select(articleColumns...).
		From(articlesTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	return r.selectArticles(ctx, qb)
}

func (r *PostgresRepository) selectArticles(ctx context.Context, qb sq.SelectBuilder) ([]domain.Article, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build articles query: %w", err)
	}

	var rows []articleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, row.toDomain())
	}
	return articles, nil
}

// Threats returns flagged posts newest first. limit <= 0 applies the implicit cap.
func (r *PostgresRepository) Threats(ctx context.Context, limit int) ([]domain.Threat, error) {
	if limit <= 0 {
		limit = r.limits.Threats
	}

	query, args, err := psql.Select(threatColumns...).
		From(threatsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build threats query: %w", err)
	}

	var rows []threatRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query threats: %w", err)
	}

	threats := make([]domain.Threat, 0, len(rows))
	for _, row := range rows {
		threats = append(threats, row.toDomain())
	}
	return threats, nil
}

// LatestDashboard reads the newest aggregated dashboard row.
func (r *PostgresRepository) LatestDashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	query, args, err := psql.Select("*").
		From(dashboardTable).
		OrderBy(`"date" DESC`).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build dashboard query: %w", err)
	}

	row := map[string]any{}
	if err := r.db.QueryRowxContext(ctx, query, args...).MapScan(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query dashboard: %w", err)
	}

	return snapshotFromRow(row)
}

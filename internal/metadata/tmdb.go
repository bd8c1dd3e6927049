package metadata

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"filmlog/internal/logging"
	"filmlog/internal/metadata/tmdb"
	"filmlog/internal/services"
	"filmlog/internal/textutil"
)

// DefaultMatchThreshold is the minimum title similarity accepted when no
// result matches the query exactly.
const DefaultMatchThreshold = 0.8

// TMDB looks titles up through the TMDB movie search.
type TMDB struct {
	client       tmdb.Searcher
	imageBaseURL string
	threshold    float64
	logger       *slog.Logger
}

var _ Lookup = (*TMDB)(nil)

// NewTMDB builds a TMDB lookup. A threshold outside (0, 1] falls back to
// DefaultMatchThreshold.
func NewTMDB(client tmdb.Searcher, imageBaseURL string, threshold float64, logger *slog.Logger) *TMDB {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	return &TMDB{
		client:       client,
		imageBaseURL: strings.TrimRight(strings.TrimSpace(imageBaseURL), "/"),
		threshold:    threshold,
		logger:       logging.NewComponentLogger(logger, "metadata"),
	}
}

// Lookup searches TMDB for title. A blank title is Absent without a request.
// A trailing "(YYYY)" narrows the search to that release year and is not
// part of the compared title.
func (l *TMDB) Lookup(ctx context.Context, title string) (Result, error) {
	if l == nil || l.client == nil {
		return Result{}, errors.New("tmdb lookup unavailable")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Absent(), nil
	}
	query, year := splitReleaseYear(title)

	logger := logging.WithContext(ctx, l.logger)
	response, err := l.client.SearchMovieWithOptions(ctx, query, tmdb.SearchOptions{Year: year})
	if err != nil {
		return Result{}, err
	}

	best, score := selectBestResult(query, response, l.threshold)
	if best == nil {
		logger.Info("no tmdb match",
			logging.String(logging.FieldEventType, "lookup_absent"),
			logging.String("query", query),
			logging.Int("release_year", year),
			logging.Int("candidates", len(response.Results)))
		return Absent(), nil
	}

	match := l.fillDetails(ctx, logger, *best)
	logger.Info("tmdb match selected",
		logging.String(logging.FieldEventType, "lookup_found"),
		logging.String("query", query),
		logging.Int64("tmdb_id", match.ID),
		logging.String("title", match.Title),
		logging.Float64("score", score))
	return Found(l.snapshot(match)), nil
}

// fillDetails fetches the movie record when the search hit lacks an overview
// or poster. A failed fetch keeps the search hit.
func (l *TMDB) fillDetails(ctx context.Context, logger *slog.Logger, res tmdb.Result) tmdb.Result {
	if res.ID <= 0 || (strings.TrimSpace(res.Overview) != "" && strings.TrimSpace(res.PosterPath) != "") {
		return res
	}
	details, err := l.client.GetMovieDetails(ctx, res.ID)
	if err != nil {
		logging.WarnWithContext(logger, "tmdb details unavailable", "lookup_details_failed",
			logging.Int64("tmdb_id", res.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
			logging.String(logging.FieldImpact, "preview shows search data only"))
		return res
	}
	if strings.TrimSpace(res.Overview) == "" {
		res.Overview = details.Overview
	}
	if strings.TrimSpace(res.PosterPath) == "" {
		res.PosterPath = details.PosterPath
	}
	if res.ReleaseDate == "" {
		res.ReleaseDate = details.ReleaseDate
	}
	return res
}

var releaseYearSuffix = regexp.MustCompile(`^(.*\S)\s*\((\d{4})\)$`)

// splitReleaseYear turns "Heat (1995)" into ("Heat", 1995). Titles without
// the suffix come back unchanged with year 0.
func splitReleaseYear(title string) (string, int) {
	m := releaseYearSuffix.FindStringSubmatch(title)
	if m == nil {
		return title, 0
	}
	year, err := strconv.Atoi(m[2])
	if err != nil || year <= 0 {
		return title, 0
	}
	return strings.TrimSpace(m[1]), year
}

// selectBestResult prefers the first result whose title folds to the query,
// then the most similar title at or above threshold, breaking ties on vote
// count.
func selectBestResult(query string, response *tmdb.Response, threshold float64) (*tmdb.Result, float64) {
	if response == nil || len(response.Results) == 0 {
		return nil, 0
	}
	for idx := range response.Results {
		res := &response.Results[idx]
		if textutil.SameTitle(res.Title, query) || textutil.SameTitle(res.OriginalTitle, query) {
			return res, 1
		}
	}

	var best *tmdb.Result
	bestScore := 0.0
	for idx := range response.Results {
		res := &response.Results[idx]
		score := max(textutil.TitleSimilarity(query, res.Title), textutil.TitleSimilarity(query, res.OriginalTitle))
		if score < threshold {
			continue
		}
		if best == nil || score > bestScore || (score == bestScore && res.VoteCount > best.VoteCount) {
			best = res
			bestScore = score
		}
	}
	return best, bestScore
}

func pickTitle(res tmdb.Result) string {
	if strings.TrimSpace(res.Title) != "" {
		return res.Title
	}
	return res.OriginalTitle
}

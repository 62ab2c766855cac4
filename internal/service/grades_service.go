package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/config"
	"github.com/zvitly/gradewatch-backend/internal/model"
)

// ErrGradesNotFound means the subject sheet has no row for the student.
var ErrGradesNotFound = errors.New("grades not found")

// SheetSource is the read-only journal fetcher backing the dashboard.
type SheetSource interface {
	SheetNames(ctx context.Context, spreadsheetID string) ([]string, error)
	StudentGrades(ctx context.Context, spreadsheetID, sheetName, studentName string) (*model.SubjectGrades, error)
}

// GroupGetter resolves a group by its primary key.
type GroupGetter interface {
	GetByID(ctx context.Context, id int) (*model.Group, error)
}

// rosterTabs are spreadsheet tabs that hold the group roster rather than a
// subject journal; they are hidden from the dashboard.
var rosterTabs = map[string]struct{}{
	"список":       {},
	"список групи": {},
}

// GradesService serves the dashboard's subject list and grade rows, caching
// Sheets responses in Redis so page reloads do not hammer the API quota.
type GradesService struct {
	groups GroupGetter
	source SheetSource
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewGradesService creates a new GradesService.
func NewGradesService(groups GroupGetter, source SheetSource, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *GradesService {
	return &GradesService{
		groups: groups,
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.With().Str("component", "grades_service").Logger(),
	}
}

// Subjects returns the group's subject tabs, roster tabs filtered out.
func (s *GradesService) Subjects(ctx context.Context, groupID int) ([]model.Subject, error) {
	cacheKey := config.CacheKey.SubjectsKey(groupID)

	var subjects []model.Subject
	if s.cacheGet(ctx, cacheKey, &subjects) {
		return subjects, nil
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", groupID, err)
	}

	names, err := s.source.SheetNames(ctx, group.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}

	subjects = make([]model.Subject, 0, len(names))
	for _, name := range names {
		if _, skip := rosterTabs[strings.ToLower(name)]; skip {
			continue
		}
		subjects = append(subjects, model.Subject{Name: name})
	}

	s.cacheSet(ctx, cacheKey, subjects)
	return subjects, nil
}

// StudentGrades returns one student's row for one subject sheet.
func (s *GradesService) StudentGrades(ctx context.Context, groupID int, subject, studentName string) (*model.SubjectGrades, error) {
	cacheKey := config.CacheKey.StudentGradesKey(groupID, subject, studentName)

	var cached model.SubjectGrades
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", groupID, err)
	}

	grades, err := s.source.StudentGrades(ctx, group.SpreadsheetID, subject, studentName)
	if err != nil {
		return nil, fmt.Errorf("fetch grades: %w", err)
	}
	if grades == nil {
		return nil, ErrGradesNotFound
	}

	s.cacheSet(ctx, cacheKey, grades)
	return grades, nil
}

func (s *GradesService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt, ignoring")
		return false
	}
	return true
}

func (s *GradesService) cacheSet(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

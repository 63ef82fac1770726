package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	coursesIndex   = "courses"
	signingKeyName = "CourseSearchSigner"
	maxSearchLimit = 50
)

type SearchService interface {
	IndexCourse(ctx context.Context, course *entity.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	SearchCourses(ctx context.Context, query string, limit int64) ([]CourseDoc, error)
	GenerateSearchToken() (string, error)
}

type CourseDoc struct {
	ID           string   `json:"id"`
	Name         string   `json:"course_name"`
	Description  string   `json:"course_description"`
	Tags         []string `json:"tags"`
	Price        float64  `json:"price"`
	Thumbnail    string   `json:"thumbnail"`
	Status       string   `json:"status"`
	CategoryID   string   `json:"category_id"`
	CategoryName string   `json:"category_name"`
	Instructor   string   `json:"instructor"`
	CreatedAt    int64    `json:"created_at"`
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
	logger        *zap.Logger
}

func NewMeiliSearchService(client meilisearch.ServiceManager, logger *zap.Logger) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initIndexes() {
	index := s.client.Index(coursesIndex)

	searchable := []string{"course_name", "tags", "category_name", "course_description", "instructor"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		s.logger.Warn("failed to update courses searchable attributes", zap.Error(err))
	}

	filterable := []any{"status", "category_id"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		s.logger.Warn("failed to update courses filterable attributes", zap.Error(err))
	}

	sortable := []string{"created_at", "price"}
	if _, err := index.UpdateSortableAttributes(&sortable); err != nil {
		s.logger.Warn("failed to update courses sortable attributes", zap.Error(err))
	}
}

func (s *meiliSearchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		s.logger.Warn("failed to list meilisearch keys", zap.Error(err))
		return
	}

	for _, key := range resp.Results {
		if key.Name == signingKeyName {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			return
		}
	}

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Signs tenant tokens for public course search",
		Name:        signingKeyName,
		Actions:     []string{"search"},
		Indexes:     []string{coursesIndex},
		ExpiresAt:   time.Now().AddDate(100, 0, 0),
	})
	if err != nil {
		s.logger.Warn("failed to create meilisearch signing key", zap.Error(err))
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
}

// IndexCourse upserts published courses and removes drafts from the index.
func (s *meiliSearchService) IndexCourse(ctx context.Context, course *entity.Course) error {
	if course.Status != entity.CoursePublished {
		return s.DeleteCourse(ctx, course.ID)
	}

	doc := s.toDoc(course)
	task, err := s.client.Index(coursesIndex).AddDocuments([]CourseDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("index course %s: %w", course.ID, err)
	}

	s.logger.Debug("indexed course", zap.String("course_id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *meiliSearchService) DeleteCourse(_ context.Context, id uuid.UUID) error {
	_, err := s.client.Index(coursesIndex).DeleteDocument(id.String())
	return err
}

func (s *meiliSearchService) SearchCourses(_ context.Context, query string, limit int64) ([]CourseDoc, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = 20
	}

	resp, err := s.client.Index(coursesIndex).Search(query, &meilisearch.SearchRequest{
		Limit:  limit,
		Filter: fmt.Sprintf("status = %q", entity.CoursePublished),
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}

	docs := []CourseDoc{}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode search hits: %w", err)
	}
	return docs, nil
}

// GenerateSearchToken returns a tenant token that can only see published courses.
func (s *meiliSearchService) GenerateSearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		coursesIndex: map[string]any{
			"filter": fmt.Sprintf("status = %q", entity.CoursePublished),
		},
	}

	return s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
}

func (s *meiliSearchService) toDoc(course *entity.Course) CourseDoc {
	doc := CourseDoc{
		ID:          course.ID.String(),
		Name:        course.Name,
		Description: s.cleanText(course.Description),
		Tags:        []string(course.Tags),
		Price:       course.Price,
		Thumbnail:   course.Thumbnail,
		Status:      course.Status,
		CategoryID:  course.CategoryID.String(),
		CreatedAt:   course.CreatedAt.Unix(),
	}
	if course.Category != nil {
		doc.CategoryName = course.Category.Name
	}
	if course.Instructor != nil {
		doc.Instructor = course.Instructor.FullName()
	}
	return doc
}

func (s *meiliSearchService) cleanText(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func strPtr(s string) *string {
	return &s
}

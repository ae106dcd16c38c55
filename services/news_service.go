package services

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/middleware"
	"tournament-platform/models"
	"tournament-platform/repository"
	"tournament-platform/utils"
)

type NewsService struct {
	DB     *gorm.DB
	Assets *assets.Manager
	Logger zerolog.Logger
	Now    func() time.Time

	news *repository.Repository[models.News]
}

func NewNewsService(db *gorm.DB, am *assets.Manager, logger zerolog.Logger) *NewsService {
	return &NewsService{
		DB:     db,
		Assets: am,
		Logger: logger.With().Str("component", "news").Logger(),
		Now:    time.Now,
		news:   repository.New[models.News](db),
	}
}

type newsRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Status    *string `json:"status"`
	PublishAt *string `json:"publish_at"`
}

// resolveStatus decides the status of an article from the requested status
// and publish time. A future publish time always schedules.
func resolveStatus(requested string, publishAt *time.Time, now time.Time) (string, error) {
	if publishAt != nil && publishAt.After(now) {
		return models.NewsScheduled, nil
	}
	switch requested {
	case "", models.NewsPublished, models.NewsScheduled:
		return models.NewsPublished, nil
	case models.NewsDraft:
		return models.NewsDraft, nil
	}
	return "", badInput("status must be draft or published")
}

func (s *NewsService) CreateNews(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req newsRequest
	if err := parseData(c, &req, false); err != nil {
		return respondError(c, s.Logger, err)
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return respondError(c, s.Logger, badInput("title is required"))
	}

	var publishAt *time.Time
	if req.PublishAt != nil && *req.PublishAt != "" {
		t, err := time.Parse(time.RFC3339, *req.PublishAt)
		if err != nil {
			return respondError(c, s.Logger, badInput("invalid publish_at (use RFC3339)"))
		}
		t = t.UTC()
		publishAt = &t
	}

	now := s.Now().UTC()
	status, err := resolveStatus(deref(req.Status), publishAt, now)
	if err != nil {
		return respondError(c, s.Logger, err)
	}

	title := strings.TrimSpace(*req.Title)
	article := models.News{
		Title:   title,
		Slug:    slug.Make(title) + "-" + uuid.NewString()[:8],
		Content: deref(req.Content),
		Status:  status,
	}
	switch status {
	case models.NewsScheduled:
		article.PublishAt = publishAt
	case models.NewsPublished:
		article.PublishedAt = &now
	}

	_, err = s.Assets.Create(ctx, formFile(c, "image"), assets.FolderNews, "", func(a assets.Asset) error {
		article.ImageURL, article.ImageName = a.URL, a.Name
		return s.news.Create(ctx, &article)
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusCreated, article)
}

// GetAllNews lists published articles, newest first. Admins can list other
// statuses with ?status=.
func (s *NewsService) GetAllNews(c *fiber.Ctx) error {
	page, offset := utils.PageParams(c)

	status := c.Query("status", models.NewsPublished)
	switch status {
	case models.NewsDraft, models.NewsScheduled, models.NewsPublished:
	default:
		return respondError(c, s.Logger, badInput("status must be draft, scheduled or published"))
	}
	if status != models.NewsPublished && !middleware.HasRole(c, "admin") {
		return utils.Fail(c, fiber.StatusForbidden, "only admins can list unpublished news")
	}

	articles, total, err := s.news.List(c.UserContext(), repository.ListQuery{
		Filters:       map[string]any{"status": status},
		Search:        strings.TrimSpace(c.Query("q")),
		SearchColumns: []string{"title"},
		OrderBy:       []string{"published_at DESC", "publish_at ASC", "created_at DESC"},
		Offset:        offset,
		Limit:         utils.PageSize,
	})
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, utils.NewPage(articles, page, total))
}

// GetNewsBySlug returns a published article. Drafts and scheduled articles
// are visible to admins only.
func (s *NewsService) GetNewsBySlug(c *fiber.Ctx) error {
	article, err := s.news.FindByField(c.UserContext(), "slug", c.Params("slug"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Article"))
	}
	if article.Status != models.NewsPublished && !middleware.HasRole(c, "admin") {
		return respondError(c, s.Logger, &NotFoundError{Entity: "Article"})
	}
	return utils.Success(c, fiber.StatusOK, article)
}

func (s *NewsService) UpdateNews(c *fiber.Ctx) error {
	ctx := c.UserContext()

	article, err := s.news.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Article"))
	}

	var req newsRequest
	if err := parseData(c, &req, true); err != nil {
		return respondError(c, s.Logger, err)
	}

	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return respondError(c, s.Logger, badInput("title cannot be empty"))
		}
		fields["title"] = title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Status != nil || req.PublishAt != nil {
		var publishAt *time.Time
		if req.PublishAt != nil && *req.PublishAt != "" {
			t, err := time.Parse(time.RFC3339, *req.PublishAt)
			if err != nil {
				return respondError(c, s.Logger, badInput("invalid publish_at (use RFC3339)"))
			}
			t = t.UTC()
			publishAt = &t
		}
		now := s.Now().UTC()
		status, err := resolveStatus(deref(req.Status), publishAt, now)
		if err != nil {
			return respondError(c, s.Logger, err)
		}
		fields["status"] = status
		switch status {
		case models.NewsScheduled:
			fields["publish_at"] = publishAt
		case models.NewsPublished:
			fields["publish_at"] = nil
			if article.PublishedAt == nil {
				fields["published_at"] = now
			}
		case models.NewsDraft:
			fields["publish_at"] = nil
		}
	}

	current := assets.Ref(article.ImageURL, article.ImageName)
	_, err = s.Assets.Swap(ctx, current, incomingFile(c, "image", article.ImageURL), assets.FolderNews, func(a assets.Asset) error {
		if a != current {
			fields["image_url"] = a.URL
			fields["image_name"] = a.Name
		}
		return s.news.Update(ctx, article.ID, fields)
	})
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Article"))
	}

	updated, err := s.news.FindByID(ctx, article.ID)
	if err != nil {
		return respondError(c, s.Logger, err)
	}
	return utils.Success(c, fiber.StatusOK, updated)
}

func (s *NewsService) DeleteNews(c *fiber.Ctx) error {
	ctx := c.UserContext()

	article, err := s.news.FindByID(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, s.Logger, lookup(err, "Article"))
	}
	if err := s.news.Delete(ctx, article.ID); err != nil {
		return respondError(c, s.Logger, lookup(err, "Article"))
	}

	s.Assets.Cleanup(ctx, assets.Ref(article.ImageURL, article.ImageName))
	return utils.Success(c, fiber.StatusOK, article)
}

// PublishDue publishes every scheduled article whose publish time has come
// and returns how many were published.
func (s *NewsService) PublishDue(ctx context.Context) (int, error) {
	now := s.Now().UTC()

	var due []models.News
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND publish_at <= ?", models.NewsScheduled, now).
		Find(&due).Error; err != nil {
		return 0, err
	}

	published := 0
	for _, article := range due {
		err := s.news.Update(ctx, article.ID, map[string]any{
			"status":       models.NewsPublished,
			"publish_at":   nil,
			"published_at": now,
		})
		if err != nil {
			s.Logger.Error().Err(err).Str("news_id", article.ID).Msg("failed to publish article")
			continue
		}
		published++
		s.Logger.Info().Str("news_id", article.ID).Str("title", article.Title).Msg("auto-published article")
	}
	return published, nil
}

package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("blog post not found")

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type BlogService struct {
	db *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{db: db}
}

// Slugify turns a title into a URL slug: lowercase, alphanumeric runs
// joined by single hyphens.
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// Create publishes a post. Slug collisions get a numeric suffix.
func (s *BlogService) Create(authorID uuid.UUID, req *dto.CreateBlogPostRequest) (*models.BlogPost, error) {
	base := Slugify(req.Title)
	slug := base
	for i := 2; ; i++ {
		var count int64
		s.db.Model(&models.BlogPost{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	post := models.BlogPost{
		ID:            uuid.New(),
		Slug:          slug,
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Tags:          mustJSON(req.Tags, "[]"),
		ReadTime:      req.ReadTime,
		AuthorID:      authorID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}
	return &post, nil
}

func (s *BlogService) List() ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := s.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

func (s *BlogService) GetBySlug(slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, ErrPostNotFound
	}
	return &post, nil
}

func (s *BlogService) Delete(id uuid.UUID) error {
	res := s.db.Delete(&models.BlogPost{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete blog post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

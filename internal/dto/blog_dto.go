package dto

type CreateBlogPostRequest struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Excerpt       string   `json:"excerpt" validate:"required,max=500"`
	Content       string   `json:"content" validate:"required"`
	FeaturedImage string   `json:"featured_image" validate:"required,url"`
	Tags          []string `json:"tags,omitempty"`
	ReadTime      string   `json:"read_time" validate:"required,max=20"`
}

package dto

type URLImportRequest struct {
	APIURL  string            `json:"api_url" validate:"required,url"`
	Mapping map[string]string `json:"mapping" validate:"required"`
	// Admins may import on behalf of a seller.
	SellerID string `json:"seller_id,omitempty" validate:"omitempty,uuid"`
}

type URLPreviewRequest struct {
	APIURL string `json:"api_url" validate:"required,url"`
}

type SFTPRequest struct {
	Host     string `json:"host" validate:"required"`
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
	Path     string `json:"path" validate:"required"`
}

type SFTPImportRequest struct {
	SFTPRequest
	Mapping  map[string]string `json:"mapping" validate:"required"`
	SellerID string            `json:"seller_id,omitempty" validate:"omitempty,uuid"`
}

type ImportResultResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ItemsAdded   int    `json:"new_items_added"`
	ItemsUpdated int    `json:"items_updated"`
}

type HeadersResponse struct {
	Success bool     `json:"success"`
	Headers []string `json:"headers"`
}

type UpdateFeedRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type CreateFeedRequest struct {
	Source   string            `json:"source" validate:"required,oneof=url sftp"`
	URL      string            `json:"url,omitempty" validate:"omitempty,url"`
	SFTPHost string            `json:"sftp_host,omitempty"`
	SFTPUser string            `json:"sftp_user,omitempty"`
	SFTPPass string            `json:"sftp_password,omitempty"`
	SFTPPath string            `json:"sftp_path,omitempty"`
	Mapping  map[string]string `json:"mapping" validate:"required"`
}

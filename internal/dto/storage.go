package dto

type SignedUploadResponse struct {
	UploadURL string `json:"uploadUrl" example:"https://project.supabase.co/storage/v1/object/upload/sign/vision-images/frames/9f1c2d3e.jpg?token=..."`
	Path      string `json:"path" example:"frames/9f1c2d3e.jpg"`
	GetURL    string `json:"getUrl" example:"https://project.supabase.co/storage/v1/object/public/vision-images/frames/9f1c2d3e.jpg"`
}

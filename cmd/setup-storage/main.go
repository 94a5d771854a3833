package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/eleven-am/caption-backend/internal/storage"
)

func main() {
	baseURL := os.Getenv("STORAGE_URL")
	serviceKey := os.Getenv("STORAGE_SERVICE_KEY")
	if baseURL == "" || serviceKey == "" {
		log.Fatal("STORAGE_URL and STORAGE_SERVICE_KEY are required")
	}

	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "vision-images"
	}

	client := storage.NewClient(storage.Config{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
		Bucket:     bucket,
	})

	ctx := context.Background()
	if err := client.EnsureBucket(ctx); err != nil {
		log.Fatal("ensure bucket:", err)
	}
	fmt.Println("Bucket ready:", bucket)

	uploadURL, err := client.CreateSignedUploadURL(ctx, "frames/smoke-test.jpg")
	if err != nil {
		log.Fatal("signed upload:", err)
	}
	fmt.Println("Signed upload URL issued:")
	fmt.Printf("  %s\n", uploadURL)
	fmt.Println("Public URL convention:")
	fmt.Printf("  %s\n", client.PublicURL("frames/smoke-test.jpg"))
}

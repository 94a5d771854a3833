package main

import (
	_ "github.com/eleven-am/caption-backend/docs"
	"github.com/eleven-am/caption-backend/internal/bootstrap"
)

// @title Vision Caption API
// @version 1.0.0
// @description Real-time visual captioning: frame upload, VLM captioning, history, and per-session realtime feeds

// @BasePath /api

func main() {
	bootstrap.Run()
}

package main

import (
	"github.com/eleven-am/maskwatch/internal/bootstrap"
)

// @title Maskwatch API
// @version 1.0.0
// @description Face mask detection on live WebRTC video and uploaded photos or videos.

// @BasePath /

func main() {
	bootstrap.Run()
}

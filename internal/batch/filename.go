package batch

import (
	"path"
	"strings"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var kinds = map[string]Kind{
	"jpg": KindImage,
	"png": KindImage,
	"mp4": KindVideo,
}

// SplitFilename returns the name without its final extension and the
// lower-cased extension after the last dot.
func SplitFilename(filename string) (base, ext string) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], strings.ToLower(name[i+1:])
}

// Classify validates filename and reports which pipeline handles it.
func Classify(filename string) (Kind, string, error) {
	_, ext := SplitFilename(filename)
	kind, ok := kinds[ext]
	if !ok {
		return "", ext, &ValidationError{Filename: filename, Extension: ext, Err: ErrUnsupportedExtension}
	}
	return kind, ext, nil
}

func outputName(filename string) string {
	base, _ := SplitFilename(filename)
	return base + "_output"
}

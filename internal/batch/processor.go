package batch

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// MatTransformer draws overlays onto a decoded picture in place.
type MatTransformer interface {
	TransformMat(img *gocv.Mat) ([]vision.Detection, error)
}

type Result struct {
	OriginalFilename string `json:"original_filename"`
	NewFilename      string `json:"new_filename"`
	Extension        string `json:"extension"`
	EncodedFile      string `json:"encoded_file"`
}

// Stats describes the work done for one upload.
type Stats struct {
	Kind     Kind
	Frames   int
	Faces    int
	BytesIn  int
	BytesOut int
	Duration time.Duration
}

type Config struct {
	TempDir string
	// VideoCodec is the FourCC used for processed videos.
	VideoCodec string
}

// Processor applies the frame transform to uploaded photos and videos.
type Processor struct {
	cfg         Config
	transformer MatTransformer
	pool        *vision.Pool
	logger      *slog.Logger
}

func NewProcessor(cfg Config, transformer MatTransformer, pool *vision.Pool, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.VideoCodec == "" {
		cfg.VideoCodec = "mp4v"
	}
	return &Processor{
		cfg:         cfg,
		transformer: transformer,
		pool:        pool,
		logger:      logger.With("component", "batch"),
	}
}

func (p *Processor) Process(ctx context.Context, filename string, data []byte) (*Result, Stats, error) {
	start := time.Now()
	stats := Stats{BytesIn: len(data)}

	kind, ext, err := Classify(filename)
	if err != nil {
		return nil, stats, err
	}
	stats.Kind = kind

	if len(data) == 0 {
		return nil, stats, &ValidationError{Filename: filename, Err: ErrEmptyUpload}
	}

	var out []byte
	switch kind {
	case KindImage:
		out, err = p.processImage(ctx, data, &stats)
	case KindVideo:
		out, err = p.processVideo(ctx, data, &stats)
	}
	stats.Duration = time.Since(start)
	if err != nil {
		return nil, stats, err
	}
	stats.BytesOut = len(out)

	p.logger.Info("upload processed",
		"filename", filename,
		"kind", string(kind),
		"frames", stats.Frames,
		"faces", stats.Faces,
		"duration", stats.Duration,
	)

	return &Result{
		OriginalFilename: filename,
		NewFilename:      outputName(filename),
		Extension:        ext,
		EncodedFile:      base64.StdEncoding.EncodeToString(out),
	}, stats, nil
}

func (p *Processor) transform(ctx context.Context, img *gocv.Mat) (int, error) {
	var faces int
	err := p.pool.Do(ctx, func() error {
		detections, err := p.transformer.TransformMat(img)
		faces = len(detections)
		return err
	})
	return faces, err
}

// processImage always re-encodes to PNG, whatever the input format.
func (p *Processor) processImage(ctx context.Context, data []byte, stats *Stats) ([]byte, error) {
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || img.Empty() {
		if err == nil {
			img.Close()
		}
		return nil, fmt.Errorf("%w: image", ErrUndecodable)
	}
	defer img.Close()

	faces, err := p.transform(ctx, &img)
	if err != nil {
		return nil, fmt.Errorf("transform image: %w", err)
	}
	stats.Frames = 1
	stats.Faces = faces

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func (p *Processor) processVideo(ctx context.Context, data []byte, stats *Stats) ([]byte, error) {
	dir, err := os.MkdirTemp(p.cfg.TempDir, "maskwatch-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	id := uuid.NewString()
	inPath := filepath.Join(dir, id+".mp4")
	outPath := filepath.Join(dir, id+"_output.mp4")

	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	if err := p.transcode(ctx, inPath, outPath, stats); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	return out, nil
}

func (p *Processor) transcode(ctx context.Context, inPath, outPath string, stats *Stats) error {
	capture, err := gocv.VideoCaptureFile(inPath)
	if err != nil {
		return fmt.Errorf("%w: video: %v", ErrUndecodable, err)
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return fmt.Errorf("%w: video", ErrUndecodable)
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	width := int(capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(capture.Get(gocv.VideoCaptureFrameHeight))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: video has no frames", ErrUndecodable)
	}
	if fps <= 0 {
		fps = 30
	}

	writer, err := gocv.VideoWriterFile(outPath, p.cfg.VideoCodec, fps, width, height, true)
	if err != nil {
		return fmt.Errorf("open video writer: %w", err)
	}
	defer writer.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	for capture.Read(&frame) {
		if frame.Empty() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		faces, err := p.transform(ctx, &frame)
		if err != nil {
			return fmt.Errorf("transform frame %d: %w", stats.Frames, err)
		}
		if err := writer.Write(frame); err != nil {
			return fmt.Errorf("write frame %d: %w", stats.Frames, err)
		}
		stats.Frames++
		stats.Faces += faces
	}

	if stats.Frames == 0 {
		return fmt.Errorf("%w: video has no frames", ErrUndecodable)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvr-ai/go-yolov3/config"
	"github.com/nvr-ai/go-yolov3/inference"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

var supportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

func main() {
	var (
		configPath string
		imagePath  string
		modelPath  string
		outputPath string
		confidence float64
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file (defaults to YOLOv3-416 COCO)")
	flag.StringVar(&imagePath, "image", "", "Path to image file (.jpg, .jpeg, .png, .bmp)")
	flag.StringVar(&modelPath, "model", "", "Path to the ONNX model, overrides the configuration")
	flag.StringVar(&outputPath, "out", "", "Write the annotated image to this path")
	flag.Float64Var(&confidence, "confidence", 0, "Confidence threshold, overrides the configuration")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	logger, err := newLogger(debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := validateFile(imagePath, supportedImageExtensions); err != nil {
		logger.Fatal("invalid image", zap.Error(err))
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if modelPath != "" {
		cfg.Model.Path = modelPath
	}
	if confidence > 0 {
		cfg.Detector.ConfidenceThreshold = float32(confidence)
	}

	engine, err := inference.NewEngineBuilder(cfg).
		WithLogger(logger).
		WithModel().
		WithSession().
		Build()
	if err != nil {
		logger.Fatal("failed to create engine", zap.Error(err))
	}
	defer engine.Close()

	mat := gocv.IMRead(imagePath, gocv.IMReadColor)
	if mat.Empty() {
		logger.Fatal("error reading image", zap.String("path", imagePath))
	}
	defer mat.Close()

	img, err := mat.ToImage()
	if err != nil {
		logger.Fatal("failed to convert image", zap.Error(err))
	}

	result, err := engine.Predict(context.Background(), img)
	if err != nil {
		logger.Fatal("prediction failed", zap.Error(err))
	}

	logger.Info("processed image",
		zap.String("path", imagePath),
		zap.Int("width", mat.Cols()),
		zap.Int("height", mat.Rows()),
		zap.Int("detections", len(result.Boxes)),
	)
	for i, box := range result.Boxes {
		fmt.Printf("Object %d: %s\n", i+1, box.String())
	}

	if outputPath == "" {
		return
	}
	for _, box := range result.Boxes {
		rect := box.ToRect()
		gocv.Rectangle(&mat, rect, color.RGBA{0, 255, 0, 0}, 2)
		label := fmt.Sprintf("%s %.2f", box.Label, box.Confidence)
		gocv.PutText(&mat, label, image.Pt(rect.Min.X, rect.Min.Y-4), gocv.FontHersheyPlain, 0.8, color.RGBA{0, 255, 0, 0}, 2)
	}
	if !gocv.IMWrite(outputPath, mat) {
		logger.Fatal("failed to save annotated image", zap.String("path", outputPath))
	}
	logger.Info("annotated image saved", zap.String("path", outputPath))
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(path)
}

// validateFile checks if the file exists and has a supported extension
func validateFile(filePath string, supportedExtensions []string) error {
	if filePath == "" {
		return fmt.Errorf("no image given, use -image")
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	for _, supportedExt := range supportedExtensions {
		if ext == supportedExt {
			return nil
		}
	}

	return fmt.Errorf("unsupported file extension: %s. Supported extensions: %v", ext, supportedExtensions)
}

// Package qrcode implements the code generator: it renders a seed string to
// a QR image, returned either as a data URI or as the URL of an asset
// uploaded to Cloudinary.
package qrcode

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	qr "github.com/skip2/go-qrcode"

	"eventful/internal/domain"
)

const imageSize = 256

// Config holds configuration for creating a code generator.
type Config struct {
	// Provider is "cloudinary" to host generated images, anything else for
	// inline data URIs.
	Provider string
	// CloudinaryURL is the cloudinary:// connection URL.
	CloudinaryURL string
	// Folder is the upload folder for hosted images.
	Folder string
}

// NewGenerator creates a CodeGenerator from config.
func NewGenerator(config Config, logger *slog.Logger) (domain.CodeGenerator, error) {
	if config.Provider != "cloudinary" {
		return &dataURIGenerator{}, nil
	}
	cld, err := cloudinary.NewFromURL(config.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	folder := config.Folder
	if folder == "" {
		folder = "codes"
	}
	return &cloudinaryGenerator{cld: cld, folder: folder, logger: logger}, nil
}

// dataURIGenerator renders the QR image inline as a PNG data URI.
type dataURIGenerator struct{}

func (g *dataURIGenerator) Generate(_ context.Context, seed string) (string, error) {
	png, err := qr.Encode(seed, qr.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// cloudinaryGenerator renders the QR image and uploads it, returning the
// hosted asset URL.
type cloudinaryGenerator struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *slog.Logger
}

func (g *cloudinaryGenerator) Generate(ctx context.Context, seed string) (string, error) {
	inline := dataURIGenerator{}
	dataURI, err := inline.Generate(ctx, seed)
	if err != nil {
		return "", err
	}
	resp, err := g.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:   g.folder,
		PublicID: publicID(seed),
	})
	if err != nil {
		return "", fmt.Errorf("upload qr code: %w", err)
	}
	g.logger.Debug("qr code uploaded", "public_id", resp.PublicID)
	return resp.SecureURL, nil
}

// publicID derives a storage-safe identifier from the seed, e.g.
// "ticket:1234" becomes "ticket-1234".
func publicID(seed string) string {
	return strings.ReplaceAll(seed, ":", "-")
}

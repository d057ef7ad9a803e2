// Package media stores product images with an external image host.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// ErrDisabled is returned when no image host is configured.
var ErrDisabled = errors.New("image uploads are not configured")

// Image is an uploaded file.
type Image struct {
	URL      string
	PublicID string
}

// Uploader stores product images.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, name string) (Image, error)
	Remove(ctx context.Context, publicID string) error
}

// Cloudinary uploads into one folder of a Cloudinary account.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    zerolog.Logger
}

// NewFromURL configures the client from a cloudinary:// URL.
func NewFromURL(cloudURL, folder string, log zerolog.Logger) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder, log: log}, nil
}

// Upload stores the image under the configured folder.
func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, name string) (Image, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return Image{}, fmt.Errorf("upload %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return Image{}, fmt.Errorf("upload %s: %s", name, res.Error.Message)
	}
	c.log.Debug().Str("public_id", res.PublicID).Msg("image uploaded")
	return Image{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Remove deletes an uploaded image. An empty publicID is a no-op.
func (c *Cloudinary) Remove(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	c.log.Debug().Str("public_id", publicID).Msg("image deleted")
	return nil
}

// Disabled rejects uploads; admins then paste an image URL instead.
type Disabled struct{}

// Upload always fails with ErrDisabled.
func (Disabled) Upload(context.Context, io.Reader, string) (Image, error) {
	return Image{}, ErrDisabled
}

// Remove is a no-op.
func (Disabled) Remove(context.Context, string) error {
	return nil
}

// New picks Cloudinary when cloudURL is set, otherwise Disabled.
func New(cloudURL string, log zerolog.Logger) (Uploader, error) {
	if cloudURL == "" {
		return Disabled{}, nil
	}
	return NewFromURL(cloudURL, "artwall/products", log)
}

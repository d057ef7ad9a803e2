package storefront

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/media"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/viewmodel"
)

// ImageUpload is an image file posted with the product form.
type ImageUpload struct {
	Reader io.Reader
	Name   string
}

// AdminPanel holds the admin-managed collections. Every mutation reloads the
// collection it touched once the backend confirms it.
type AdminPanel struct {
	shop    *Shop
	session *models.Session

	Products     *viewmodel.CollectionView[models.Product]
	Testimonials *viewmodel.CollectionView[models.Testimonial]
}

// AdminPanel returns an unloaded panel, or an error when session is not an
// admin.
func (s *Shop) AdminPanel(session *models.Session) (*AdminPanel, error) {
	if session == nil {
		return nil, viewmodel.ErrUnauthenticated
	}
	if !session.IsAdmin {
		return nil, viewmodel.ErrForbidden
	}
	return &AdminPanel{
		shop:    s,
		session: session,
		Products: viewmodel.NewCollectionView(func(ctx context.Context) ([]models.Product, error) {
			return s.products.FindAll(ctx, "", 0)
		}),
		Testimonials: viewmodel.NewCollectionView(s.testimonials.FindAll),
	}, nil
}

// Load fetches both collections concurrently.
func (a *AdminPanel) Load(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		a.Products.Load(ctx)
		return nil
	})
	g.Go(func() error {
		a.Testimonials.Load(ctx)
		return nil
	})
	_ = g.Wait()
}

// Close discards any in-flight loads of the panel views.
func (a *AdminPanel) Close() {
	a.Products.Close()
	a.Testimonials.Close()
}

func (a *AdminPanel) action(name string, id ...string) string {
	key := a.session.UserID + ":" + name
	for _, part := range id {
		key += ":" + part
	}
	return key
}

// AddProduct creates a product. An uploaded image replaces input.ImageURL;
// it is removed again when the insert fails.
func (a *AdminPanel) AddProduct(ctx context.Context, input models.ProductInput, image *ImageUpload) error {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return err
	}
	return a.shop.mutator.Run(ctx, a.action("add-product"), func(ctx context.Context) error {
		if image != nil {
			uploaded, err := a.shop.uploader.Upload(ctx, image.Reader, image.Name)
			if err != nil {
				return err
			}
			input.ImageURL = uploaded.URL
			input.ImagePublicID = uploaded.PublicID
		}
		if _, err := a.shop.products.Create(ctx, input); err != nil {
			a.removeImage(ctx, input.ImagePublicID)
			return err
		}
		return nil
	}, a.Products.Load)
}

// UpdateProduct patches a product and refreshes the product list.
func (a *AdminPanel) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) error {
	return a.shop.mutator.Run(ctx, a.action("update-product", id), func(ctx context.Context) error {
		_, err := a.shop.products.Update(ctx, id, update)
		return err
	}, a.Products.Load)
}

// DeleteProduct removes a product and its hosted image.
func (a *AdminPanel) DeleteProduct(ctx context.Context, id string) error {
	return a.shop.mutator.Run(ctx, a.action("delete-product", id), func(ctx context.Context) error {
		product, err := a.shop.products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := a.shop.products.Delete(ctx, id); err != nil {
			return err
		}
		a.removeImage(ctx, product.ImagePublicID)
		return nil
	}, a.Products.Load)
}

// AddTestimonial creates a testimonial and refreshes the list.
func (a *AdminPanel) AddTestimonial(ctx context.Context, input models.TestimonialInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	return a.shop.mutator.Run(ctx, a.action("add-testimonial"), func(ctx context.Context) error {
		_, err := a.shop.testimonials.Create(ctx, input)
		return err
	}, a.Testimonials.Load)
}

// ToggleApproval flips the approval flag of a testimonial from current.
func (a *AdminPanel) ToggleApproval(ctx context.Context, id string, current bool) error {
	return a.shop.mutator.Toggle(ctx, a.action("toggle-approval", id), current, func(ctx context.Context, approved bool) error {
		_, err := a.shop.testimonials.SetApproved(ctx, id, approved)
		return err
	}, a.Testimonials.Load)
}

// DeleteTestimonial removes a testimonial and refreshes the list.
func (a *AdminPanel) DeleteTestimonial(ctx context.Context, id string) error {
	return a.shop.mutator.Run(ctx, a.action("delete-testimonial", id), func(ctx context.Context) error {
		return a.shop.testimonials.Delete(ctx, id)
	}, a.Testimonials.Load)
}

func (a *AdminPanel) removeImage(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := a.shop.uploader.Remove(ctx, publicID); err != nil && !errors.Is(err, media.ErrDisabled) {
		a.shop.log.Warn().Err(err).Str("public_id", publicID).Msg("image cleanup failed")
	}
}

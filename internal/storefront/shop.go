// Package storefront mounts the view models behind each storefront page.
// Every call builds fresh views, loads them and hands them to the caller,
// who renders and closes them.
package storefront

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/media"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/repository"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/viewmodel"
)

const DefaultFeaturedLimit = 6

// Shop builds the storefront page view models over one record store.
type Shop struct {
	products     *repository.ProductRepository
	testimonials *repository.TestimonialRepository
	comments     *repository.CommentRepository
	messages     *repository.MessageRepository
	uploader     media.Uploader
	mutator      *viewmodel.Mutator
	featured     int
	log          zerolog.Logger
}

// Option configures a Shop.
type Option func(*Shop)

func WithFeaturedLimit(n int) Option {
	return func(s *Shop) {
		if n > 0 {
			s.featured = n
		}
	}
}

func WithUploader(u media.Uploader) Option { return func(s *Shop) { s.uploader = u } }

func WithLogger(l zerolog.Logger) Option { return func(s *Shop) { s.log = l } }

// New creates a Shop backed by store.
func New(store remote.Store, opts ...Option) *Shop {
	s := &Shop{
		products:     repository.NewProductRepository(store),
		testimonials: repository.NewTestimonialRepository(store),
		comments:     repository.NewCommentRepository(store),
		messages:     repository.NewMessageRepository(store),
		uploader:     media.Disabled{},
		mutator:      viewmodel.NewMutator(),
		featured:     DefaultFeaturedLimit,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HomePage holds the two independent sections of the landing page.
type HomePage struct {
	Featured     *viewmodel.CollectionView[models.Product]
	Testimonials *viewmodel.CollectionView[models.Testimonial]
}

// Close discards any in-flight loads of both views.
func (p *HomePage) Close() {
	p.Featured.Close()
	p.Testimonials.Close()
}

// Home loads the featured products and approved testimonials concurrently.
// A failure in one section leaves the other untouched.
func (s *Shop) Home(ctx context.Context) *HomePage {
	page := &HomePage{
		Featured:     s.ProductList("", s.featured),
		Testimonials: s.ApprovedTestimonials(),
	}
	var g errgroup.Group
	g.Go(func() error {
		page.Featured.Load(ctx)
		return nil
	})
	g.Go(func() error {
		page.Testimonials.Load(ctx)
		return nil
	})
	_ = g.Wait()
	s.logFailure("home featured", page.Featured.State().Err)
	s.logFailure("home testimonials", page.Testimonials.State().Err)
	return page
}

// ProductList is an unloaded view over products, optionally narrowed on the
// backend by category and limit.
func (s *Shop) ProductList(category string, limit int) *viewmodel.CollectionView[models.Product] {
	return viewmodel.NewCollectionView(func(ctx context.Context) ([]models.Product, error) {
		return s.products.FindAll(ctx, category, limit)
	})
}

// ApprovedTestimonials is an unloaded view over the public testimonials.
func (s *Shop) ApprovedTestimonials() *viewmodel.CollectionView[models.Testimonial] {
	return viewmodel.NewCollectionView(func(ctx context.Context) ([]models.Testimonial, error) {
		return s.testimonials.FindApproved(ctx, 0)
	})
}

// Catalog loads every product and applies filter as a local projection.
func (s *Shop) Catalog(ctx context.Context, filter viewmodel.FilterKey) *viewmodel.FilteredView[models.Product] {
	view := viewmodel.NewFilteredView(func(ctx context.Context) ([]models.Product, error) {
		return s.products.FindAll(ctx, "", 0)
	}, filter)
	view.Load(ctx)
	s.logFailure("catalog", view.State().Err)
	return view
}

// ProductView is the detail page of one product with its comments.
type ProductView = viewmodel.DetailView[models.Product, models.Comment]

// ProductPage builds the detail view for session, which may be nil. The
// caller decides what to load.
func (s *Shop) ProductPage(session *models.Session) *ProductView {
	return viewmodel.NewDetailView(s.products.FindByID, s.comments.FindByProduct, s.comments.Create, session)
}

// LoadProductPage builds the detail view and loads the product with its
// comments. Comments are skipped when the product does not exist.
func (s *Shop) LoadProductPage(ctx context.Context, id string, session *models.Session) *ProductView {
	page := s.ProductPage(session)
	page.LoadDetail(ctx, id)
	if !page.State().NotFound() {
		page.LoadRelated(ctx, id)
	}
	s.logFailure("product page", page.State().Err)
	return page
}

// SubmitContact validates and stores a contact form submission.
func (s *Shop) SubmitContact(ctx context.Context, msg models.ContactMessage) error {
	_, err := s.messages.Create(ctx, msg)
	return err
}

func (s *Shop) logFailure(where string, err error) {
	if err == nil {
		return
	}
	kind := viewmodel.KindOf(err)
	if kind == viewmodel.NotFound {
		return
	}
	s.log.Warn().Err(err).Str("view", where).Str("kind", kind.String()).Msg("load failed")
}

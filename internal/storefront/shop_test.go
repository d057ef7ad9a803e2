package storefront

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/media"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote/memstore"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote/remotemock"
	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/viewmodel"
)

var (
	visitor = &models.Session{Token: "t-visitor", UserID: "u1", Email: "sara@example.com"}
	admin   = &models.Session{Token: "t-admin", UserID: "u0", Email: "owner@artwall.ir", IsAdmin: true}
)

func seededShop(t *testing.T) (*Shop, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	shop := New(store, WithFeaturedLimit(4))
	require.NoError(t, shop.SeedDemo(context.Background()))
	return shop, store
}

func TestSeedDemoRunsOnce(t *testing.T) {
	shop, store := seededShop(t)
	require.NoError(t, shop.SeedDemo(context.Background()))

	assert.Equal(t, len(demoProducts), store.Len(models.CollectionProducts))
	assert.Equal(t, len(demoTestimonials), store.Len(models.CollectionTestimonials))
}

func TestHome(t *testing.T) {
	shop, _ := seededShop(t)

	page := shop.Home(context.Background())
	defer page.Close()

	featured := page.Featured.State()
	require.NoError(t, featured.Err)
	require.Len(t, featured.Items, 4)
	assert.Equal(t, "آرامش انتزاعی", featured.Items[0].Title)
	assert.Len(t, page.Testimonials.Items(), 3)
}

func TestHomeSectionsFailIndependently(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := remotemock.NewMockStore(ctrl)
	store.EXPECT().
		List(gomock.Any(), models.CollectionProducts, gomock.Any()).
		Return(nil, remote.Transport("list products", errors.New("connection refused")))
	store.EXPECT().
		List(gomock.Any(), models.CollectionTestimonials, gomock.Any()).
		Return([]remote.Document{{"id": "t1", "name": "Sara", "text": "Lovely", "is_approved": true}}, nil)

	page := New(store).Home(context.Background())

	assert.Equal(t, viewmodel.TransportError, page.Featured.State().Kind())
	assert.Empty(t, page.Featured.Items())
	testimonials := page.Testimonials.State()
	require.NoError(t, testimonials.Err)
	require.Len(t, testimonials.Items, 1)
	assert.Equal(t, "t1", testimonials.Items[0].ID)
}

func TestCatalogFilter(t *testing.T) {
	shop, _ := seededShop(t)

	view := shop.Catalog(context.Background(), viewmodel.ParseFilterKey("minimal"))
	defer view.Close()

	visible := view.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, "آرامش انتزاعی", visible[0].Title)
	assert.Equal(t, "چهره مینیمال", visible[1].Title)

	view.SetFilter(viewmodel.FilterAll)
	assert.Len(t, view.Visible(), len(demoProducts))
}

func TestProductPageCommentFlow(t *testing.T) {
	ctx := context.Background()
	shop, _ := seededShop(t)
	product := shop.Catalog(ctx, viewmodel.FilterAll).Items()[0]

	page := shop.LoadProductPage(ctx, product.ID, visitor)
	defer page.Close()
	require.Empty(t, page.State().Related.Items)

	require.NoError(t, page.SubmitRelated(ctx, product.ID, "first"))
	require.NoError(t, page.SubmitRelated(ctx, product.ID, "Great piece"))

	comments := page.State().Related.Items
	require.Len(t, comments, 2)
	assert.Equal(t, "Great piece", comments[0].Comment)
	assert.Equal(t, product.ID, comments[0].ProductID)
	assert.Equal(t, visitor.UserID, comments[0].UserID)
	assert.True(t, comments[0].CreatedAt.After(comments[1].CreatedAt))
}

func TestProductPageNotFound(t *testing.T) {
	shop, _ := seededShop(t)

	page := shop.LoadProductPage(context.Background(), "missing", nil)

	state := page.State()
	assert.True(t, state.NotFound())
	assert.Empty(t, state.Related.Items)
}

func TestSubmitCommentOnMissingProduct(t *testing.T) {
	ctx := context.Background()
	shop, store := seededShop(t)

	page := shop.ProductPage(visitor)
	defer page.Close()
	err := page.SubmitRelated(ctx, "no-such-product", "hello")

	assert.Equal(t, viewmodel.NotFound, viewmodel.KindOf(err))
	assert.Equal(t, viewmodel.NotFound, viewmodel.KindOf(page.State().SubmitErr))
	assert.Zero(t, store.Len(models.CollectionComments))
}

func TestSubmitCommentWithoutSessionNeverInserts(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := remotemock.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), models.CollectionProducts, "42").
		Return(remote.Document{"id": "42", "title": "Wave", "price": "10", "category": "minimal"}, nil)
	store.EXPECT().List(gomock.Any(), models.CollectionComments, gomock.Any()).Return(nil, nil)
	store.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	page := New(store).LoadProductPage(context.Background(), "42", nil)
	err := page.SubmitRelated(context.Background(), "42", "hello")

	assert.Equal(t, viewmodel.Unauthenticated, viewmodel.KindOf(err))
}

func TestSubmitContact(t *testing.T) {
	shop, store := seededShop(t)

	err := shop.SubmitContact(context.Background(), models.ContactMessage{Name: "Ali", Message: "hi"})
	assert.Equal(t, viewmodel.ValidationError, viewmodel.KindOf(err))

	require.NoError(t, shop.SubmitContact(context.Background(), models.ContactMessage{Name: "Ali", Phone: "0912", Message: "hi"}))
	assert.Equal(t, 1, store.Len(models.CollectionMessages))
}

func TestAdminPanelRequiresAdmin(t *testing.T) {
	shop, _ := seededShop(t)

	_, err := shop.AdminPanel(nil)
	assert.ErrorIs(t, err, viewmodel.ErrUnauthenticated)
	_, err = shop.AdminPanel(visitor)
	assert.ErrorIs(t, err, viewmodel.ErrForbidden)

	panel, err := shop.AdminPanel(admin)
	require.NoError(t, err)
	panel.Load(context.Background())
	assert.Len(t, panel.Products.Items(), len(demoProducts))
	assert.Len(t, panel.Testimonials.Items(), len(demoTestimonials))
}

func TestAdminToggleApproval(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	doc, err := store.Insert(ctx, models.CollectionTestimonials, remote.Document{"name": "Sara", "text": "Lovely", "is_approved": false})
	require.NoError(t, err)
	t1 := doc.ID()

	shop := New(store)
	panel, err := shop.AdminPanel(admin)
	require.NoError(t, err)
	panel.Load(ctx)

	public := shop.ApprovedTestimonials()
	public.Load(ctx)
	require.Empty(t, public.Items())

	require.NoError(t, panel.ToggleApproval(ctx, t1, false))

	approved := viewmodel.Where(panel.Testimonials.Items(), models.Testimonial.Approved)
	require.Len(t, approved, 1)
	assert.Equal(t, t1, approved[0].ID)

	public.Load(ctx)
	require.Len(t, public.Items(), 1)
}

func TestAdminToggleSendsNegatedValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := remotemock.NewMockStore(ctrl)
	gomock.InOrder(
		store.EXPECT().
			Update(gomock.Any(), models.CollectionTestimonials, "t1", remote.Document{"is_approved": true}).
			Return(remote.Document{"id": "t1", "is_approved": true}, nil),
		store.EXPECT().
			List(gomock.Any(), models.CollectionTestimonials, gomock.Any()).
			Return([]remote.Document{{"id": "t1", "is_approved": true}}, nil),
	)

	panel, err := New(store).AdminPanel(admin)
	require.NoError(t, err)
	require.NoError(t, panel.ToggleApproval(context.Background(), "t1", false))
	assert.True(t, panel.Testimonials.Items()[0].IsApproved)
}

func TestAdminFailedMutationSkipsReload(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := remotemock.NewMockStore(ctrl)
	store.EXPECT().
		Delete(gomock.Any(), models.CollectionTestimonials, "t1").
		Return(remote.Transport("delete testimonials", errors.New("timeout")))
	store.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	panel, err := New(store).AdminPanel(admin)
	require.NoError(t, err)

	err = panel.DeleteTestimonial(context.Background(), "t1")
	assert.Equal(t, viewmodel.TransportError, viewmodel.KindOf(err))
}

type fakeUploader struct {
	uploaded []string
	removed  []string
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, name string) (media.Image, error) {
	if _, err := io.ReadAll(r); err != nil {
		return media.Image{}, err
	}
	f.uploaded = append(f.uploaded, name)
	return media.Image{URL: "https://img.example/" + name, PublicID: "artwall/" + name}, nil
}

func (f *fakeUploader) Remove(_ context.Context, publicID string) error {
	f.removed = append(f.removed, publicID)
	return nil
}

func TestAdminProductLifecycle(t *testing.T) {
	ctx := context.Background()
	uploader := &fakeUploader{}
	shop := New(memstore.New(), WithUploader(uploader))
	panel, err := shop.AdminPanel(admin)
	require.NoError(t, err)

	err = panel.AddProduct(ctx, models.ProductInput{Title: "Wave", Price: "1,000"}, &ImageUpload{Reader: strings.NewReader("png"), Name: "wave.png"})
	require.NoError(t, err)

	products := panel.Products.Items()
	require.Len(t, products, 1)
	assert.Equal(t, "https://img.example/wave.png", products[0].ImageURL)
	assert.Equal(t, models.CategoryMinimal, products[0].Category)

	title := "Wave II"
	require.NoError(t, panel.UpdateProduct(ctx, products[0].ID, models.ProductUpdate{Title: &title}))
	assert.Equal(t, "Wave II", panel.Products.Items()[0].Title)

	require.NoError(t, panel.DeleteProduct(ctx, products[0].ID))
	assert.Empty(t, panel.Products.Items())
	assert.Equal(t, []string{"artwall/wave.png"}, uploader.removed)

	err = panel.AddProduct(ctx, models.ProductInput{Price: "1"}, nil)
	assert.Equal(t, viewmodel.ValidationError, viewmodel.KindOf(err))
}

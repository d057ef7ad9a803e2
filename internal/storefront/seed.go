package storefront

import (
	"context"
	"fmt"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/models"
)

var demoProducts = []models.ProductInput{
	{Title: "برگ‌های خزان", Price: "۱,۰۰۰,۰۰۰", Description: "مجموعه برگ‌های پاییزی", Category: models.CategoryNatural},
	{Title: "هارمونی طلایی", Price: "۱,۳۵۰,۰۰۰", Description: "ترکیب طلایی و قهوه‌ای", Category: models.CategoryModern},
	{Title: "غروب کوهستان", Price: "۱,۱۰۰,۰۰۰", Description: "آبرنگ انتزاعی منظره", Category: models.CategoryModern},
	{Title: "چهره مینیمال", Price: "۸۵۰,۰۰۰", Description: "طراحی خطی ساده", Category: models.CategoryMinimal},
	{Title: "باغ خشک", Price: "۹۵۰,۰۰۰", Description: "گل‌های خشک طبیعی", Category: models.CategoryNatural},
	{Title: "آرامش انتزاعی", Price: "۱,۲۵۰,۰۰۰", Description: "طرح هندسی با رنگ‌های گرم", Category: models.CategoryMinimal},
}

var demoTestimonials = []models.TestimonialInput{
	{Name: "مریم کریمی", Text: "تابلوی سفارشی من بسیار زیبا شد. از تیم ARTWALL تشکر می‌کنم!"},
	{Name: "علی محمدی", Text: "خدمات عالی و تحویل سریع. حتماً دوباره سفارش می‌دهم."},
	{Name: "سارا احمدی", Text: "کیفیت تابلو فوق‌العاده بود. دقیقاً همان چیزی که می‌خواستم!"},
}

// SeedDemo fills an empty catalog with the demo pieces and testimonials.
// It does nothing when any product already exists.
func (s *Shop) SeedDemo(ctx context.Context) error {
	existing, err := s.products.FindAll(ctx, "", 1)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, p := range demoProducts {
		if _, err := s.products.Create(ctx, p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Title, err)
		}
	}
	for _, t := range demoTestimonials {
		if _, err := s.testimonials.Create(ctx, t); err != nil {
			return fmt.Errorf("seed testimonial %q: %w", t.Name, err)
		}
	}
	s.log.Info().Int("products", len(demoProducts)).Int("testimonials", len(demoTestimonials)).Msg("🌱 demo catalog seeded")
	return nil
}

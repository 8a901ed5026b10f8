package content

// Section is one typed homepage block. Every section key maps to exactly one
// concrete type; featured_products and new_arrivals share ProductShelf.
type Section interface {
	// Lists exposes the editable arrays of the section by JSON field name
	Lists() map[string]ItemList

	// normalize trims arrays to their fixed size, padding from pad when short
	normalize(pad Section)
}

// Fixed array sizes
const (
	CategoryItemCount = 8
	OfferSectionCount = 3
	BannerCardCount   = 2
)

// HeroSlide is one image of the top carousel
type HeroSlide struct {
	Title      string `json:"title" validate:"required,max=120"`
	Subtitle   string `json:"subtitle" validate:"max=240"`
	ImageURL   string `json:"image_url" validate:"max=1000"`
	ButtonText string `json:"button_text" validate:"max=40"`
	ButtonLink string `json:"button_link" validate:"max=500"`
}

// HeroSlides is the top carousel
type HeroSlides struct {
	AutoplayMs int         `json:"autoplay_ms" validate:"min=0,max=60000"`
	Slides     []HeroSlide `json:"slides" validate:"max=10,dive"`
}

func (s *HeroSlides) Lists() map[string]ItemList {
	return map[string]ItemList{
		"slides": newSliceList(&s.Slides, HeroSlide{Title: "New slide"}, 0),
	}
}

func (s *HeroSlides) normalize(Section) {
	s.Slides = nonNil(s.Slides)
}

// GridSection is one tile of a promotional grid
type GridSection struct {
	Title    string `json:"title" validate:"required,max=120"`
	ImageURL string `json:"image_url" validate:"max=1000"`
	Link     string `json:"link" validate:"max=500"`
}

// GridSections is a grid of promotional tiles
type GridSections struct {
	Title    string        `json:"title" validate:"max=120"`
	Sections []GridSection `json:"sections" validate:"max=12,dive"`
}

func (s *GridSections) Lists() map[string]ItemList {
	return map[string]ItemList{
		"sections": newSliceList(&s.Sections, GridSection{Title: "New tile"}, 0),
	}
}

func (s *GridSections) normalize(Section) {
	s.Sections = nonNil(s.Sections)
}

// CategoryItem is one round category shortcut
type CategoryItem struct {
	Name     string `json:"name" validate:"required,max=60"`
	ImageURL string `json:"image_url" validate:"max=1000"`
	Link     string `json:"link" validate:"max=500"`
}

// CategoryItems is the category shortcut row. It always holds CategoryItemCount items.
type CategoryItems struct {
	Title string         `json:"title" validate:"max=120"`
	Items []CategoryItem `json:"items" validate:"len=8,dive"`
}

func (s *CategoryItems) Lists() map[string]ItemList {
	return map[string]ItemList{
		"items": newSliceList(&s.Items, CategoryItem{Name: "Category"}, CategoryItemCount),
	}
}

func (s *CategoryItems) normalize(pad Section) {
	var defaults []CategoryItem
	if p, ok := pad.(*CategoryItems); ok {
		defaults = p.Items
	}
	s.Items = fitArity(s.Items, CategoryItemCount, defaults, CategoryItem{Name: "Category"})
}

// OfferSection is one promotional offer block
type OfferSection struct {
	Title         string `json:"title" validate:"required,max=120"`
	Subtitle      string `json:"subtitle" validate:"max=240"`
	DiscountLabel string `json:"discount_label" validate:"max=40"`
	ImageURL      string `json:"image_url" validate:"max=1000"`
	Link          string `json:"link" validate:"max=500"`
}

// OfferSections is the offer carousel. It always holds OfferSectionCount blocks.
type OfferSections struct {
	Sections []OfferSection `json:"sections" validate:"len=3,dive"`
}

func (s *OfferSections) Lists() map[string]ItemList {
	return map[string]ItemList{
		"sections": newSliceList(&s.Sections, OfferSection{Title: "Offer"}, OfferSectionCount),
	}
}

func (s *OfferSections) normalize(pad Section) {
	var defaults []OfferSection
	if p, ok := pad.(*OfferSections); ok {
		defaults = p.Sections
	}
	s.Sections = fitArity(s.Sections, OfferSectionCount, defaults, OfferSection{Title: "Offer"})
}

// ProductShelf is a product slider. ProductIDs pins products; when empty the
// storefront fills the shelf automatically.
type ProductShelf struct {
	Title      string   `json:"title" validate:"required,max=120"`
	Subtitle   string   `json:"subtitle" validate:"max=240"`
	Limit      int      `json:"limit" validate:"min=1,max=24"`
	ProductIDs []string `json:"product_ids" validate:"max=24,dive,uuid"`
}

func (s *ProductShelf) Lists() map[string]ItemList {
	return map[string]ItemList{
		"product_ids": newSliceList(&s.ProductIDs, "", 0),
	}
}

func (s *ProductShelf) normalize(Section) {
	s.ProductIDs = nonNil(s.ProductIDs)
}

// Feature is one icon with a short claim, e.g. free shipping
type Feature struct {
	Icon        string `json:"icon" validate:"max=40"`
	Title       string `json:"title" validate:"required,max=60"`
	Description string `json:"description" validate:"max=160"`
}

// FeatureBar is the strip of service claims under the hero
type FeatureBar struct {
	Features []Feature `json:"features" validate:"max=6,dive"`
}

func (s *FeatureBar) Lists() map[string]ItemList {
	return map[string]ItemList{
		"features": newSliceList(&s.Features, Feature{Icon: "star", Title: "New feature"}, 0),
	}
}

func (s *FeatureBar) normalize(Section) {
	s.Features = nonNil(s.Features)
}

// BannerCard is one half-width banner
type BannerCard struct {
	Title      string `json:"title" validate:"required,max=120"`
	Subtitle   string `json:"subtitle" validate:"max=240"`
	ImageURL   string `json:"image_url" validate:"max=1000"`
	ButtonText string `json:"button_text" validate:"max=40"`
	Link       string `json:"link" validate:"max=500"`
}

// BannerCards is the pair of banners. It always holds BannerCardCount cards.
type BannerCards struct {
	Cards []BannerCard `json:"cards" validate:"len=2,dive"`
}

func (s *BannerCards) Lists() map[string]ItemList {
	return map[string]ItemList{
		"cards": newSliceList(&s.Cards, BannerCard{Title: "Banner"}, BannerCardCount),
	}
}

func (s *BannerCards) normalize(pad Section) {
	var defaults []BannerCard
	if p, ok := pad.(*BannerCards); ok {
		defaults = p.Cards
	}
	s.Cards = fitArity(s.Cards, BannerCardCount, defaults, BannerCard{Title: "Banner"})
}

// InfoText is long-form text shown near the footer
type InfoText struct {
	Title      string   `json:"title" validate:"max=120"`
	Paragraphs []string `json:"paragraphs" validate:"max=20,dive,max=4000"`
}

func (s *InfoText) Lists() map[string]ItemList {
	return map[string]ItemList{
		"paragraphs": newSliceList(&s.Paragraphs, "", 0),
	}
}

func (s *InfoText) normalize(Section) {
	s.Paragraphs = nonNil(s.Paragraphs)
}

// Brand is one logo of the brand strip
type Brand struct {
	Name    string `json:"name" validate:"required,max=60"`
	LogoURL string `json:"logo_url" validate:"max=1000"`
	Link    string `json:"link" validate:"max=500"`
}

// BrandStrip is a row of partner logos
type BrandStrip struct {
	Title  string  `json:"title" validate:"max=120"`
	Brands []Brand `json:"brands" validate:"max=24,dive"`
}

func (s *BrandStrip) Lists() map[string]ItemList {
	return map[string]ItemList{
		"brands": newSliceList(&s.Brands, Brand{Name: "Brand"}, 0),
	}
}

func (s *BrandStrip) normalize(Section) {
	s.Brands = nonNil(s.Brands)
}

// Newsletter is the sign-up box
type Newsletter struct {
	Enabled     bool   `json:"enabled"`
	Title       string `json:"title" validate:"max=120"`
	Subtitle    string `json:"subtitle" validate:"max=240"`
	Placeholder string `json:"placeholder" validate:"max=60"`
	ButtonText  string `json:"button_text" validate:"max=40"`
}

func (s *Newsletter) Lists() map[string]ItemList {
	return map[string]ItemList{}
}

func (s *Newsletter) normalize(Section) {}

// newSection returns a zero value of the type bound to key
func newSection(key SectionKey) (Section, error) {
	switch key {
	case SectionHeroSlides:
		return &HeroSlides{}, nil
	case SectionGridSections:
		return &GridSections{}, nil
	case SectionCategoryItems:
		return &CategoryItems{}, nil
	case SectionOfferSections:
		return &OfferSections{}, nil
	case SectionFeaturedProducts, SectionNewArrivals:
		return &ProductShelf{}, nil
	case SectionFeatureBar:
		return &FeatureBar{}, nil
	case SectionBannerCards:
		return &BannerCards{}, nil
	case SectionInfoText:
		return &InfoText{}, nil
	case SectionBrandStrip:
		return &BrandStrip{}, nil
	case SectionNewsletter:
		return &Newsletter{}, nil
	}
	_, err := ParseSectionKey(string(key))
	return nil, err
}

// fitArity truncates items to n, or pads with the default item at the same index
// (template when defaults run out)
func fitArity[T any](items []T, n int, defaults []T, template T) []T {
	out := make([]T, n)
	for i := 0; i < n; i++ {
		switch {
		case i < len(items):
			out[i] = items[i]
		case i < len(defaults):
			out[i] = defaults[i]
		default:
			out[i] = template
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

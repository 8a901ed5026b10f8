package content

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/content"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, audit.Action, string, string, any) {}

// memRepo keeps sections in a map and counts reads so cache hits can be observed
type memRepo struct {
	rows      map[content.SectionKey]content.HomePageContent
	findAll   int
	failOnKey content.SectionKey
	// afterRead runs once, after FindAll took its snapshot
	afterRead func()
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[content.SectionKey]content.HomePageContent)}
}

func (r *memRepo) FindAll(context.Context) ([]content.HomePageContent, error) {
	r.findAll++
	out := make([]content.HomePageContent, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	if fn := r.afterRead; fn != nil {
		r.afterRead = nil
		fn()
	}
	return out, nil
}

func (r *memRepo) FindByKey(_ context.Context, key content.SectionKey) (*content.HomePageContent, error) {
	row, ok := r.rows[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (r *memRepo) Upsert(_ context.Context, row *content.HomePageContent) error {
	if row.SectionKey == r.failOnKey {
		return errors.New("connection reset")
	}
	r.rows[row.SectionKey] = *row
	return nil
}

func (r *memRepo) DeleteByKey(_ context.Context, key content.SectionKey) error {
	if _, ok := r.rows[key]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, key)
	return nil
}

func newTestService(t *testing.T) (*Service, *memRepo) {
	repo := newMemRepo()
	c := cache.NewInMemoryCache(0)
	t.Cleanup(func() { _ = c.Close() })
	return NewService(repo, c, 0, nopRecorder{}, zap.NewNop()), repo
}

func heroTitles(t *testing.T, resp *SectionResponse) []string {
	t.Helper()
	hero, ok := resp.Content.(*content.HeroSlides)
	require.True(t, ok)
	titles := make([]string, len(hero.Slides))
	for i, s := range hero.Slides {
		titles[i] = s.Title
	}
	return titles
}

func TestService_GetFallsBackToDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	resp, err := svc.Get(context.Background(), "hero_slides")
	require.NoError(t, err)
	assert.False(t, resp.Stored)
	assert.Equal(t, []string{"New Season Arrivals", "Summer Sale"}, heroTitles(t, resp))
	assert.Equal(t, 2, resp.Lists["slides"])

	_, err = svc.Get(context.Background(), "footer")
	assert.ErrorIs(t, err, content.ErrUnknownSection)
}

func TestService_SaveThenLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	saved, err := svc.Save(ctx, "info_text", SaveSectionRequest{
		Content: json.RawMessage(`{"paragraphs":["One","Two"]}`),
	})
	require.NoError(t, err)
	assert.True(t, saved.Stored)

	loaded, err := svc.Get(ctx, "info_text")
	require.NoError(t, err)
	info := loaded.Content.(*content.InfoText)
	assert.Equal(t, []string{"One", "Two"}, info.Paragraphs)

	defaults, err := content.Defaults(content.SectionInfoText)
	require.NoError(t, err)
	assert.Equal(t, defaults.(*content.InfoText).Title, info.Title, "absent field keeps its default")

	again, err := svc.Save(ctx, "info_text", SaveSectionRequest{Content: mustJSON(t, loaded.Content)})
	require.NoError(t, err)
	assert.Equal(t, loaded.Content, again.Content)
}

func TestService_SaveEnforcesArity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Save(ctx, "banner_cards", SaveSectionRequest{
		Content: json.RawMessage(`{"cards":[{"title":"Only one"}]}`),
	})
	require.NoError(t, err)
	cards := resp.Content.(*content.BannerCards).Cards
	require.Len(t, cards, content.BannerCardCount)
	assert.Equal(t, "Only one", cards[0].Title)
	assert.Equal(t, 2, resp.FixedSizes["cards"])

	resp, err = svc.Save(ctx, "category_items", SaveSectionRequest{
		Content: json.RawMessage(`{"items":[` + repeat(`{"name":"X"}`, 11) + `]}`),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Content.(*content.CategoryItems).Items, content.CategoryItemCount)
}

func TestService_SaveRejectsInvalidContent(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := svc.Save(context.Background(), "hero_slides", SaveSectionRequest{
		Content: json.RawMessage(`{"slides":[{"title":""}]}`),
	})
	var verr *content.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slides[0].title", verr.Fields[0].Field)
	assert.Empty(t, repo.rows)
}

func TestService_ItemOps(t *testing.T) {
	ctx := context.Background()

	t.Run("add remove move keep other items", func(t *testing.T) {
		svc, _ := newTestService(t)

		resp, err := svc.ApplyItemOp(ctx, "hero_slides", ItemOpRequest{
			Field: "slides", Op: ItemOpAdd, Item: json.RawMessage(`{"title":"Black Friday"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"New Season Arrivals", "Summer Sale", "Black Friday"}, heroTitles(t, resp))

		resp, err = svc.ApplyItemOp(ctx, "hero_slides", ItemOpRequest{Field: "slides", Op: ItemOpMoveUp, Index: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"New Season Arrivals", "Black Friday", "Summer Sale"}, heroTitles(t, resp))

		resp, err = svc.ApplyItemOp(ctx, "hero_slides", ItemOpRequest{Field: "slides", Op: ItemOpRemove, Index: 0})
		require.NoError(t, err)
		assert.Equal(t, []string{"Black Friday", "Summer Sale"}, heroTitles(t, resp))

		hero := resp.Content.(*content.HeroSlides)
		assert.Equal(t, "/static/hero/summer-sale.jpg", hero.Slides[1].ImageURL)
	})

	t.Run("fixed lists only move", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.ApplyItemOp(ctx, "offer_sections", ItemOpRequest{Field: "sections", Op: ItemOpAdd})
		assert.ErrorIs(t, err, content.ErrFixedSize)

		resp, err := svc.ApplyItemOp(ctx, "offer_sections", ItemOpRequest{Field: "sections", Op: ItemOpMoveDown, Index: 0})
		require.NoError(t, err)
		offers := resp.Content.(*content.OfferSections).Sections
		require.Len(t, offers, content.OfferSectionCount)
		assert.Equal(t, "Weekend Deals", offers[1].Title)
	})

	t.Run("unknown field", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.ApplyItemOp(ctx, "newsletter", ItemOpRequest{Field: "items", Op: ItemOpAdd})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_FIELD", domainErr.Code)
	})
}

func TestService_BulkSaveIsPerSection(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	repo.failOnKey = content.SectionBrandStrip

	result, err := svc.BulkSave(ctx, BulkSaveRequest{Sections: map[string]SaveSectionRequest{
		"newsletter":  {Content: json.RawMessage(`{"enabled":false}`)},
		"brand_strip": {Content: json.RawMessage(`{"title":"Partners"}`)},
		"nope":        {Content: json.RawMessage(`{}`)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 2, result.Failed)

	byKey := map[string]SectionResult{}
	for _, r := range result.Results {
		byKey[r.SectionKey] = r
	}
	assert.True(t, byKey["newsletter"].Success)
	assert.Equal(t, "INTERNAL_ERROR", byKey["brand_strip"].ErrorCode)
	assert.Equal(t, "UNKNOWN_SECTION", byKey["nope"].ErrorCode)
	assert.Contains(t, repo.rows, content.SectionNewsletter)
}

func TestService_BulkSaveWithoutContentKeepsStoredSection(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	_, err := svc.Save(ctx, "info_text", SaveSectionRequest{Content: json.RawMessage(`{"title":"Custom About Us","paragraphs":["mine"]}`)})
	require.NoError(t, err)

	order := 2
	result, err := svc.BulkSave(ctx, BulkSaveRequest{Sections: map[string]SaveSectionRequest{
		"info_text":  {Order: &order},
		"newsletter": {Content: json.RawMessage(`null`)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, 2, result.Failed)
	for _, r := range result.Results {
		assert.Equal(t, "VALIDATION_ERROR", r.ErrorCode, r.SectionKey)
	}
	assert.NotContains(t, repo.rows, content.SectionNewsletter)

	resp, err := svc.Get(ctx, "info_text")
	require.NoError(t, err)
	assert.Equal(t, "Custom About Us", resp.Content.(*content.InfoText).Title)
}

func TestService_PageUsesCacheAndInvalidatesOnSave(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	page, err := svc.Page(ctx)
	require.NoError(t, err)
	assert.Len(t, page, len(content.AllSectionKeys))
	_, err = svc.Page(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAll)

	order := 0
	_, err = svc.Save(ctx, "newsletter", SaveSectionRequest{Content: json.RawMessage(`{"title":"Stay in touch"}`), Order: &order})
	require.NoError(t, err)

	page, err = svc.Page(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.findAll)
	// ties keep default order, so the moved section lands right after hero_slides
	assert.Equal(t, "hero_slides", page[0].SectionKey)
	assert.Equal(t, "newsletter", page[1].SectionKey)
	assert.Equal(t, "Stay in touch", page[1].Content.(*content.Newsletter).Title)
}

func TestService_SaveDuringPageReadIsNotHiddenByCache(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	_, err := svc.Save(ctx, "info_text", SaveSectionRequest{Content: json.RawMessage(`{"title":"Old"}`)})
	require.NoError(t, err)

	// the save lands after the page read its rows but before it fills the cache
	repo.afterRead = func() {
		_, err := svc.Save(ctx, "info_text", SaveSectionRequest{Content: json.RawMessage(`{"title":"New"}`)})
		require.NoError(t, err)
	}
	page, err := svc.Page(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Old", infoTextTitle(t, page))

	page, err = svc.Page(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New", infoTextTitle(t, page))
	assert.Equal(t, 2, repo.findAll)
}

func infoTextTitle(t *testing.T, page []SectionResponse) string {
	t.Helper()
	for _, section := range page {
		if section.SectionKey == "info_text" {
			return section.Content.(*content.InfoText).Title
		}
	}
	t.Fatal("info_text missing from page")
	return ""
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	_, err := svc.Save(ctx, "info_text", SaveSectionRequest{Content: json.RawMessage(`{"title":"Custom"}`)})
	require.NoError(t, err)

	resp, err := svc.Reset(ctx, "info_text")
	require.NoError(t, err)
	assert.False(t, resp.Stored)
	assert.Empty(t, repo.rows)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func repeat(item string, n int) string {
	out := item
	for i := 1; i < n; i++ {
		out += "," + item
	}
	return out
}

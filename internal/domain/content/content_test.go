package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_EverySectionDecodesAndValidates(t *testing.T) {
	for _, key := range AllSectionKeys {
		t.Run(key.String(), func(t *testing.T) {
			section, err := Decode(key, nil)
			require.NoError(t, err)
			assert.NoError(t, Validate(key, section))
		})
	}
}

func TestDefaults_ReturnsIndependentCopies(t *testing.T) {
	a, err := Defaults(SectionHeroSlides)
	require.NoError(t, err)
	a.(*HeroSlides).Slides[0].Title = "changed"

	b, err := Defaults(SectionHeroSlides)
	require.NoError(t, err)
	assert.Equal(t, "New Season Arrivals", b.(*HeroSlides).Slides[0].Title)
}

func TestDecode_MergesByFieldPresence(t *testing.T) {
	stored := []byte(`{"title":"Stay tuned","enabled":false,"unknown_field":"dropped"}`)

	section, err := Decode(SectionNewsletter, stored)
	require.NoError(t, err)
	n := section.(*Newsletter)

	assert.Equal(t, "Stay tuned", n.Title)
	assert.False(t, n.Enabled, "present false wins over default true")
	assert.Equal(t, "Subscribe", n.ButtonText, "absent field keeps default")

	encoded, err := Encode(n)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "unknown_field")
}

func TestDecode_ArraysReplacedWhole(t *testing.T) {
	stored := []byte(`{"slides":[{"title":"Only one"}]}`)

	section, err := Decode(SectionHeroSlides, stored)
	require.NoError(t, err)
	h := section.(*HeroSlides)

	require.Len(t, h.Slides, 1)
	assert.Equal(t, "Only one", h.Slides[0].Title)
	assert.Empty(t, h.Slides[0].ImageURL, "stored item does not inherit default item fields")
	assert.Equal(t, 6000, h.AutoplayMs)
}

func TestDecode_Arity(t *testing.T) {
	tests := []struct {
		key    SectionKey
		stored string
		count  func(Section) int
		want   int
	}{
		{SectionCategoryItems, `{"items":[{"name":"A"},{"name":"B"}]}`, func(s Section) int { return len(s.(*CategoryItems).Items) }, 8},
		{SectionCategoryItems, `{"items":[` + repeat(`{"name":"X"}`, 11) + `]}`, func(s Section) int { return len(s.(*CategoryItems).Items) }, 8},
		{SectionOfferSections, `{"sections":[]}`, func(s Section) int { return len(s.(*OfferSections).Sections) }, 3},
		{SectionOfferSections, `{"sections":[` + repeat(`{"title":"O"}`, 5) + `]}`, func(s Section) int { return len(s.(*OfferSections).Sections) }, 3},
		{SectionBannerCards, `{"cards":[{"title":"One"}]}`, func(s Section) int { return len(s.(*BannerCards).Cards) }, 2},
		{SectionBannerCards, `{"cards":null}`, func(s Section) int { return len(s.(*BannerCards).Cards) }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			section, err := Decode(tt.key, []byte(tt.stored))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.count(section))
			assert.NoError(t, Validate(tt.key, section))
		})
	}
}

func TestDecode_PadsWithDefaultAtSameIndex(t *testing.T) {
	section, err := Decode(SectionCategoryItems, []byte(`{"items":[{"name":"A"},{"name":"B"}]}`))
	require.NoError(t, err)
	items := section.(*CategoryItems).Items

	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
	assert.Equal(t, "Trousers", items[2].Name)
	assert.Equal(t, "Kids", items[7].Name)
}

func TestDecode_RejectsBadInput(t *testing.T) {
	_, err := Decode(SectionKey("sidebar"), nil)
	require.Error(t, err)

	_, err = Decode(SectionNewsletter, []byte(`[1,2]`))
	require.Error(t, err)

	_, err = Decode(SectionNewsletter, []byte(`{"enabled":"yes"}`))
	require.Error(t, err)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	for _, key := range AllSectionKeys {
		t.Run(key.String(), func(t *testing.T) {
			first, err := Decode(key, nil)
			require.NoError(t, err)

			row, err := NewHomePageContent(key, first)
			require.NoError(t, err)

			second, err := row.Section()
			require.NoError(t, err)
			assert.Equal(t, first, second)

			again, err := Encode(second)
			require.NoError(t, err)
			assert.JSONEq(t, string(row.Content), string(again))
		})
	}
}

func TestValidate_ReportsFieldPaths(t *testing.T) {
	section, err := Decode(SectionHeroSlides, []byte(`{"slides":[{"title":""}]}`))
	require.NoError(t, err)

	err = Validate(SectionHeroSlides, section)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "slides[0].title", verr.Fields[0].Field)
	assert.Equal(t, "is required", verr.Fields[0].Message)
}

func TestValidate_ProductIDs(t *testing.T) {
	section, err := Decode(SectionFeaturedProducts, []byte(`{"product_ids":["nope"]}`))
	require.NoError(t, err)
	assert.Error(t, Validate(SectionFeaturedProducts, section))
}

func TestItemList_AddRemoveMovePreserveOthers(t *testing.T) {
	section, err := Decode(SectionFeatureBar, nil)
	require.NoError(t, err)
	bar := section.(*FeatureBar)
	original := append([]Feature(nil), bar.Features...)
	list := bar.Lists()["features"]

	t.Run("add appends template", func(t *testing.T) {
		require.NoError(t, list.Add(nil))
		require.Len(t, bar.Features, len(original)+1)
		assert.Equal(t, original, bar.Features[:len(original)])
		assert.Equal(t, "New feature", bar.Features[len(original)].Title)
	})

	t.Run("add decodes given item", func(t *testing.T) {
		require.NoError(t, list.Add(json.RawMessage(`{"title":"Gift wrap","icon":"gift"}`)))
		assert.Equal(t, Feature{Icon: "gift", Title: "Gift wrap"}, bar.Features[len(bar.Features)-1])
		assert.Error(t, list.Add(json.RawMessage(`"nope"`)))
	})

	t.Run("move swaps with neighbour", func(t *testing.T) {
		require.NoError(t, list.Move(1, Up))
		assert.Equal(t, original[1], bar.Features[0])
		assert.Equal(t, original[0], bar.Features[1])
		assert.Equal(t, original[2:], bar.Features[2:len(original)])

		require.NoError(t, list.Move(0, Down))
		assert.Equal(t, original, bar.Features[:len(original)])
	})

	t.Run("move at edge is a no-op", func(t *testing.T) {
		before := append([]Feature(nil), bar.Features...)
		require.NoError(t, list.Move(0, Up))
		require.NoError(t, list.Move(len(bar.Features)-1, Down))
		assert.Equal(t, before, bar.Features)
	})

	t.Run("remove drops only the target", func(t *testing.T) {
		n := len(bar.Features)
		require.NoError(t, list.Remove(n-1))
		require.NoError(t, list.Remove(n-2))
		assert.Equal(t, original, bar.Features)
		assert.Error(t, list.Remove(99))
		assert.Error(t, list.Move(-1, Up))
	})
}

func TestItemList_FixedSize(t *testing.T) {
	section, err := Decode(SectionBannerCards, nil)
	require.NoError(t, err)
	list := section.Lists()["cards"]

	assert.Equal(t, BannerCardCount, list.FixedSize())
	assert.ErrorIs(t, list.Add(nil), ErrFixedSize)
	assert.ErrorIs(t, list.Remove(0), ErrFixedSize)

	cards := section.(*BannerCards).Cards
	first, second := cards[0], cards[1]
	require.NoError(t, list.Move(0, Down))
	assert.Equal(t, []BannerCard{second, first}, section.(*BannerCards).Cards)
}

func TestAddRemoveItem_DoNotAliasInput(t *testing.T) {
	in := make([]int, 2, 10)
	in[0], in[1] = 1, 2

	out := AddItem(in, 3)
	out[0] = 9
	assert.Equal(t, []int{1, 2}, in)

	removed, err := RemoveItem([]int{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, removed)
}

func TestBuildPage(t *testing.T) {
	hero, err := Decode(SectionHeroSlides, []byte(`{"autoplay_ms":1000}`))
	require.NoError(t, err)
	row, err := NewHomePageContent(SectionHeroSlides, hero)
	require.NoError(t, err)
	row.Order = 99

	broken := HomePageContent{SectionKey: SectionNewsletter, Content: []byte(`{"enabled":"x"}`)}

	page, failures := BuildPage([]HomePageContent{*row, broken})
	require.Len(t, page, len(AllSectionKeys))
	assert.Contains(t, failures, SectionNewsletter)

	last := page[len(page)-1]
	assert.Equal(t, SectionHeroSlides, last.Key)
	assert.True(t, last.Stored)
	assert.Equal(t, 1000, last.Content.(*HeroSlides).AutoplayMs)
}

func TestParseSectionKey(t *testing.T) {
	key, err := ParseSectionKey(" offer_sections ")
	require.NoError(t, err)
	assert.Equal(t, SectionOfferSections, key)

	_, err = ParseSectionKey("footer")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func repeat(item string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += item
	}
	return out
}

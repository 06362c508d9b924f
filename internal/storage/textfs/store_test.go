package textfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), common.NewSilentLogger())
	require.NoError(t, err)
	return store
}

func TestSaveAndGetIntros(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveIntros(ctx, "johndoe", "company text", "brand text"))

	texts, err := store.GetTexts(ctx, "johndoe")
	require.NoError(t, err)
	assert.Equal(t, "company text", texts.CompanyIntro)
	assert.Equal(t, "brand text", texts.BrandIntro)
}

func TestSaveIntros_Overwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveIntros(ctx, "johndoe", "v1", "v1"))
	require.NoError(t, store.SaveIntros(ctx, "johndoe", "v2 company", "v2 brand"))

	texts, err := store.GetTexts(ctx, "johndoe")
	require.NoError(t, err)
	assert.Equal(t, "v2 company", texts.CompanyIntro)
	assert.Equal(t, "v2 brand", texts.BrandIntro)
}

func TestSaveAdditional_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAdditional(ctx, "johndoe", models.PurposeAdCopy, "spring_sale", "buy now"))
	require.NoError(t, store.SaveAdditional(ctx, "johndoe", models.PurposeAdCopy, "autumn_sale", "buy later"))

	texts, err := store.GetTexts(ctx, "johndoe")
	require.NoError(t, err)

	files := texts.AdditionalFiles[models.PurposeAdCopy]
	require.Len(t, files, 2)
	// Sorted by name
	assert.Equal(t, "autumn_sale", files[0].Name)
	assert.Equal(t, "buy later", files[0].Content)
	assert.Equal(t, "spring_sale", files[1].Name)
}

func TestSaveAdditional_NormalizesPurpose(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAdditional(ctx, "johndoe", "Learning Ad Copy", "sample", "text"))

	texts, err := store.GetTexts(ctx, "johndoe")
	require.NoError(t, err)
	require.Len(t, texts.AdditionalFiles[models.PurposeAdCopy], 1)
}

func TestSaveAdditional_EmptyPurposeOrName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.SaveAdditional(ctx, "johndoe", "", "name", "content"))
	assert.Error(t, store.SaveAdditional(ctx, "johndoe", models.PurposeEmail, "", "content"))
}

func TestGetTexts_EmptyUser(t *testing.T) {
	store := newTestStore(t)

	texts, err := store.GetTexts(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, texts.CompanyIntro)
	assert.Empty(t, texts.BrandIntro)
	for _, purpose := range models.TextPurposes {
		files, ok := texts.AdditionalFiles[purpose]
		require.True(t, ok, "purpose %s missing", purpose)
		assert.Empty(t, files)
	}
}

func TestSanitize_PathTraversal(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base, common.NewSilentLogger())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveIntros(ctx, "../escape", "company", "brand"))

	// Nothing written outside the base directory.
	_, statErr := os.Stat(filepath.Join(filepath.Dir(base), "escape"))
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteFile_UnicodeContent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	korean := "회사 소개: 저희는 혁신적인 기업입니다."
	require.NoError(t, store.SaveIntros(ctx, "johndoe", korean, "브랜드 소개"))

	texts, err := store.GetTexts(ctx, "johndoe")
	require.NoError(t, err)
	assert.Equal(t, korean, texts.CompanyIntro)
}

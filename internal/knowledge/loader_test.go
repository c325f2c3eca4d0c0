package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "persona-match/internal/common/errors"
	"persona-match/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

const validPersonalities = `[
	{"name": "Dreamer", "description": "Lives in daydreams and moodboards", "traits": ["imaginative"], "emoji": "🌙"},
	{"name": "Empath", "description": "Feels everything, shares it all", "synonyms": ["The Healer"]}
]`

const validCatalog = `{
	"Empath": [
		{"product": "Weighted blanket", "category": "Wellness"},
		{"product": "Poetry anthology", "category": "Books"}
	]
}`

func newTestLoader(t *testing.T, personalities, catalog string) *Loader {
	return NewLoader(
		writeTempFile(t, "personality_types.json", personalities),
		writeTempFile(t, "product_catalog.json", catalog),
		logger.NewTestLogger(t),
	)
}

// ==========================
// Load Tests
// ==========================

func TestLoader_Load_Valid(t *testing.T) {
	loader := newTestLoader(t, validPersonalities, validCatalog)

	base, err := loader.Load()

	require.NoError(t, err)
	require.NotNil(t, base)
	assert.Len(t, base.Personalities, 2)
	assert.Equal(t, "Dreamer", base.Personalities[0].Name)
	assert.Equal(t, []string{"imaginative"}, base.Personalities[0].Traits)
	assert.Len(t, base.ProductCatalog["Empath"], 2)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	loader := NewLoader(
		filepath.Join(t.TempDir(), "does-not-exist.json"),
		writeTempFile(t, "product_catalog.json", validCatalog),
		logger.NewNoOpLogger(),
	)

	base, err := loader.Load()

	assert.Nil(t, base)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeKnowledgeBaseUnreadable, stderrors.CodeOf(err))
}

func TestLoader_Load_SchemaViolations(t *testing.T) {
	tests := []struct {
		name          string
		personalities string
		catalog       string
		expectedCode  stderrors.ErrorCode
	}{
		{
			name:          "personality missing description",
			personalities: `[{"name": "Dreamer"}]`,
			catalog:       validCatalog,
			expectedCode:  stderrors.ErrCodeKnowledgeBaseInvalid,
		},
		{
			name:          "personality missing name",
			personalities: `[{"description": "no identity"}]`,
			catalog:       validCatalog,
			expectedCode:  stderrors.ErrCodeKnowledgeBaseInvalid,
		},
		{
			name:          "empty personality list",
			personalities: `[]`,
			catalog:       validCatalog,
			expectedCode:  stderrors.ErrCodeKnowledgeBaseInvalid,
		},
		{
			name:          "personalities not an array",
			personalities: `{"name": "Dreamer"}`,
			catalog:       validCatalog,
			expectedCode:  stderrors.ErrCodeKnowledgeBaseInvalid,
		},
		{
			name:          "catalog product missing category",
			personalities: validPersonalities,
			catalog:       `{"Empath": [{"product": "Candle set"}]}`,
			expectedCode:  stderrors.ErrCodeKnowledgeBaseInvalid,
		},
		{
			name:          "catalog not an object",
			personalities: validPersonalities,
			catalog:       `["Wellness"]`,
			expectedCode:  stderrors.ErrCodeKnowledgeBaseInvalid,
		},
		{
			name:          "personalities not valid json",
			personalities: `[{"name": "Dreamer",`,
			catalog:       validCatalog,
			expectedCode:  stderrors.ErrCodeKnowledgeBaseUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t, tt.personalities, tt.catalog)

			base, err := loader.Load()

			assert.Nil(t, base)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, stderrors.CodeOf(err))
		})
	}
}

func TestLoader_Load_DanglingReference(t *testing.T) {
	// Catalog keys a personality that is not in the personality list: this is
	// a load-time data-integrity failure, never deferred to scoring time.
	catalog := `{"Adventurer": [{"product": "Hiking boots", "category": "Outdoors"}]}`
	loader := newTestLoader(t, validPersonalities, catalog)

	base, err := loader.Load()

	assert.Nil(t, base)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeDataIntegrityViolation, stderrors.CodeOf(err))
	assert.Contains(t, err.(*stderrors.StandardError).Details, "Adventurer")
}

func TestLoader_Load_DuplicatePersonalityName(t *testing.T) {
	personalities := `[
		{"name": "Dreamer", "description": "first"},
		{"name": "Dreamer", "description": "second"}
	]`
	loader := newTestLoader(t, personalities, `{}`)

	base, err := loader.Load()

	assert.Nil(t, base)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeDataIntegrityViolation, stderrors.CodeOf(err))
}

// ==========================
// Base Lookup Tests
// ==========================

func TestBase_Lookups(t *testing.T) {
	loader := newTestLoader(t, validPersonalities, validCatalog)
	base, err := loader.Load()
	require.NoError(t, err)

	t.Run("personality present", func(t *testing.T) {
		p, ok := base.Personality("Empath")
		assert.True(t, ok)
		assert.Equal(t, "Feels everything, shares it all", p.Description)
	})

	t.Run("personality absent", func(t *testing.T) {
		_, ok := base.Personality("Adventurer")
		assert.False(t, ok)
	})

	t.Run("categories for known personality", func(t *testing.T) {
		assert.Equal(t, []string{"Wellness", "Books"}, base.CategoriesFor("Empath"))
	})

	t.Run("categories for personality without catalog entry", func(t *testing.T) {
		assert.Empty(t, base.CategoriesFor("Dreamer"))
	})

	t.Run("products for personality without catalog entry", func(t *testing.T) {
		assert.Empty(t, base.ProductsFor("Dreamer"))
	})
}

func TestBase_CategoriesFor_Deduplicates(t *testing.T) {
	catalog := `{
		"Empath": [
			{"product": "Weighted blanket", "category": "Wellness"},
			{"product": "Herbal tea sampler", "category": "Wellness"},
			{"product": "Poetry anthology", "category": "Books"}
		]
	}`
	loader := newTestLoader(t, validPersonalities, catalog)
	base, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Wellness", "Books"}, base.CategoriesFor("Empath"))
}

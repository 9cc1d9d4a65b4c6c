package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scidepot/depot/sparql"
	"github.com/scidepot/depot/testutil"
)

func TestUpdateArticleStampsModificationDate(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.UpdateArticle(context.Background(), ArticleUpdate{
		VersionID: 3,
		Title:     strptr("Revised title"),
		IsPublic:  true,
	})
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "col:version_id 3")
	assert.Contains(t, updates[0], `col:title "Revised title"`)
	assert.Contains(t, updates[0], "col:modified_date")
	assert.Contains(t, updates[0], "col:is_public 1")
	assert.NotContains(t, updates[0], `col:description "`,
		"an absent field must not be rewritten")
}

func TestUpdateItemCategoriesReplacesSet(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)
	ctx := context.Background()

	// Existing links {1, 2} become exactly {3}.
	err := repo.UpdateItemCategories(ctx, 7, ItemTypeArticle, []int64{3})
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 2)
	assert.Contains(t, updates[0], "DELETE")
	assert.Contains(t, updates[0], "depot:ArticleCategory")
	assert.Contains(t, updates[0], "col:item_version_id 7")
	assert.Contains(t, updates[1], "INSERT INTO GRAPH")
	assert.Contains(t, updates[1], `category_id> "3"`)

	store.StubQuery("depot:ArticleCategory ;",
		sparql.Row{"id": sparql.Int(3)},
	)
	rows := repo.ItemCategories(ctx, 7, ItemTypeArticle)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].Int("id"))
}

func TestDeleteItemCategoriesRestrictedByIDs(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.DeleteItemCategories(context.Background(), 7, ItemTypeArticle, []int64{1, 2})
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "?row col:category_id ?category_id")
	assert.Contains(t, updates[0], "FILTER")
	assert.Contains(t, updates[0], "1")
	assert.Contains(t, updates[0], "2")
}

func TestDeleteItemCategoriesEmptySetRemovesAll(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.DeleteItemCategories(context.Background(), 7, ItemTypeArticle, nil)
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.NotContains(t, updates[0], "FILTER",
		"an empty id set removes every link, not none")
}

func TestUpdateCollectionArticlesPreservesOrder(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.UpdateCollectionArticles(context.Background(), 9, []int64{40, 20, 30})
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 4)
	assert.Contains(t, updates[0], "depot:CollectionArticle")
	assert.Contains(t, updates[1], `article_id> "40"`)
	assert.Contains(t, updates[1], `order_index> "0"`)
	assert.Contains(t, updates[2], `article_id> "20"`)
	assert.Contains(t, updates[2], `order_index> "1"`)
	assert.Contains(t, updates[3], `article_id> "30"`)
	assert.Contains(t, updates[3], `order_index> "2"`)
}

func TestDeleteTagsByValue(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.DeleteTags(context.Background(), 5, ItemTypeArticle, []string{"oceanography"})
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "depot:ArticleTag")
	assert.Contains(t, updates[0], "oceanography")
}

func TestDeleteSessionGuardedByAccount(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.DeleteSession(context.Background(), 5, "abcdef")
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "depot:Session")
	assert.Contains(t, updates[0], "col:account_id 5")
	assert.Contains(t, updates[0], `"abcdef"`)
}

func TestDeleteEmbargoByVersion(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.DeleteEmbargo(context.Background(), 3)
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "depot:ArticleEmbargoOption")
	assert.Contains(t, updates[0], "col:article_version_id 3")
}

func TestDeleteFileRemovesLinkAndRecord(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.DeleteFile(context.Background(), 11, 3)
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 2)
	assert.Contains(t, updates[0], "depot:ArticleFile")
	assert.Contains(t, updates[0], "col:file_id 11")
	assert.Contains(t, updates[1], "depot:File")
	assert.Contains(t, updates[1], "col:id 11")
}

func TestDeleteArticleVersionRemovesChildren(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)
	ctx := context.Background()

	store.StubQuery("depot:ArticleFile",
		sparql.Row{"id": sparql.Int(11)},
	)

	err := repo.DeleteArticleVersion(ctx, 3)
	require.NoError(t, err)

	// One link plus one record delete per file, then one delete per child
	// class plus the article row itself.
	updates := store.Updates()
	require.Len(t, updates, 11)

	for _, class := range []string{
		"depot:ArticleAuthor", "depot:ArticleTag", "depot:ArticleCategory",
		"depot:Funding", "depot:ArticleCustomField", "depot:ArticleEmbargoOption",
		"depot:ArticleReference", "depot:PrivateLink",
	} {
		assert.NotEmpty(t, store.UpdatesMatching(class+" ;"), "missing delete for %s", class)
	}

	last := updates[len(updates)-1]
	assert.Contains(t, last, "depot:Article ;")
	assert.Contains(t, last, "col:version_id 3")
}

func TestDeleteCollectionVersionRemovesChildren(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.DeleteCollectionVersion(context.Background(), 4)
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 6)
	assert.Contains(t, updates[len(updates)-1], "depot:Collection ;")
	assert.Contains(t, updates[len(updates)-1], "col:version_id 4")
}

func TestRenameSessionTargetsToken(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.RenameSession(context.Background(), 5, "tok123", strptr("workstation"))
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "tok123")
	assert.Contains(t, updates[0], `"workstation"`)
}

func TestUpdatePrivateLinkPatchesFlags(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.UpdatePrivateLink(context.Background(), "a1b2c3", 3, ItemTypeArticle, false, true, nil)
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "a1b2c3")
	assert.Contains(t, updates[0], "col:is_active 0")
	assert.Contains(t, updates[0], "col:read_only 1")
}

func TestUpdateFileRecordPatchesFields(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.UpdateFileRecord(context.Background(), 12, FileUpdate{
		FileID: 7,
		Size:   int64ptr(999),
		Status: strptr("moved"),
	})
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "col:id 7")
	assert.Contains(t, updates[0], "col:size 999")
	assert.Contains(t, updates[0], `col:status "moved"`)
}

func TestUpdateFileRecordInvalidatesVersionReads(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("depot:ArticleFile",
		sparql.Row{"id": sparql.Int(7), "size": sparql.Int(100)},
	)
	repo := newTestRepository(t, store)
	ctx := context.Background()

	repo.ArticleFiles(ctx, 12, nil)
	repo.ArticleFiles(ctx, 12, nil)
	require.Len(t, store.QueriesMatching("depot:ArticleFile"), 1,
		"the repeat read must be served from the cache")

	err := repo.UpdateFileRecord(ctx, 12, FileUpdate{FileID: 7, Size: int64ptr(999)})
	require.NoError(t, err)

	repo.ArticleFiles(ctx, 12, nil)
	assert.Len(t, store.QueriesMatching("depot:ArticleFile"), 2,
		"a file patch must evict the owning version's file listing")
}

func TestUpdateArticleThumbReplaces(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.UpdateArticleThumb(context.Background(), 3, strptr("https://cdn.example.org/thumb.png"))
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "col:version_id 3")
	assert.Contains(t, updates[0], `col:thumb "https://cdn.example.org/thumb.png"`)
}

func TestUpdateArticleThumbNilRemoves(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	err := repo.UpdateArticleThumb(context.Background(), 3, nil)
	require.NoError(t, err)

	updates := store.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], "DELETE {")
	assert.NotContains(t, updates[0], `col:thumb "`,
		"a nil thumb must not insert a replacement")
}

func TestDeleteArticleFilesRemovesEach(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	store.StubQuery("depot:ArticleFile",
		sparql.Row{"id": sparql.Int(11)},
		sparql.Row{"id": sparql.Int(12)},
	)

	err := repo.DeleteArticleFiles(context.Background(), 3)
	require.NoError(t, err)

	// Link plus record delete per file.
	assert.Len(t, store.Updates(), 4)
	assert.NotEmpty(t, store.UpdatesMatching("col:file_id 11"))
	assert.NotEmpty(t, store.UpdatesMatching("col:file_id 12"))
}

func TestDeleteArticleRemovesEveryVersion(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	store.StubQuery("FILTER (?id = 90)",
		sparql.Row{"id": sparql.Int(90), "version_id": sparql.Int(90)},
		sparql.Row{"id": sparql.Int(90), "version_id": sparql.Int(95)},
	)

	err := repo.DeleteArticle(context.Background(), 90)
	require.NoError(t, err)

	first := store.UpdatesMatching("col:version_id 90")
	second := store.UpdatesMatching("col:version_id 95")
	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
}

func TestDeleteCollectionRemovesEveryVersion(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	store.StubQuery("FILTER (?id = 60)",
		sparql.Row{"id": sparql.Int(60), "version_id": sparql.Int(61)},
	)

	err := repo.DeleteCollection(context.Background(), 60)
	require.NoError(t, err)

	last := store.Updates()[len(store.Updates())-1]
	assert.Contains(t, last, "depot:Collection ;")
	assert.Contains(t, last, "col:version_id 61")
}

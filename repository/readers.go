package repository

import (
	"context"
	"strings"

	"github.com/scidepot/depot/counters"
	"github.com/scidepot/depot/rdf"
	"github.com/scidepot/depot/sparql"
)

// limitOrDefault applies the application-level default page size. A zero
// limit means "unspecified"; a negative limit requests no limit at all.
func limitOrDefault(limit int) int {
	switch {
	case limit == 0:
		return 10
	case limit < 0:
		return 0
	default:
		return limit
	}
}

// DatasetsParams are the optional filters for Datasets. Unset fields
// constrain nothing.
type DatasetsParams struct {
	ID             *int64
	VersionID      *int64
	AccountID      *int64
	DOI            *string
	Search         *string
	GroupIDs       []int64
	Categories     []int64
	ExcludeIDs     []int64
	IsPublic       *bool
	IsLatest       *bool
	IsEditable     *bool
	PublishedSince string
	Order          string
	Direction      string
	Limit          int
	Offset         int
}

func (p DatasetsParams) filters() string {
	var sb strings.Builder
	sb.WriteString(rdf.Filter("id", p.ID))
	sb.WriteString(rdf.Filter("version_id", p.VersionID))
	sb.WriteString(rdf.Filter("account_id", p.AccountID))
	sb.WriteString(rdf.Filter("doi", p.DOI))
	sb.WriteString(rdf.Filter("is_public", p.IsPublic))
	sb.WriteString(rdf.Filter("is_latest", p.IsLatest))
	sb.WriteString(rdf.Filter("is_editable", p.IsEditable))
	sb.WriteString(rdf.InFilter("group_id", p.GroupIDs, false))
	sb.WriteString(rdf.InFilter("category_id", p.Categories, false))
	sb.WriteString(rdf.InFilter("id", p.ExcludeIDs, true))
	if p.Search != nil {
		sb.WriteString(rdf.ContainsFilter(*p.Search, "title", "description", "doi"))
	}
	if p.PublishedSince != "" {
		sb.WriteString(rdf.BoundFilter("published_date"))
		sb.WriteString(rdf.AfterFilter("published_date", p.PublishedSince))
	}
	return sb.String()
}

// Datasets lists article versions matching the given filters.
func (r *Repository) Datasets(ctx context.Context, p DatasetsParams) []sparql.Row {
	params := r.params()
	params["filters"] = p.filters()
	params["suffix"] = rdf.Suffix(p.Order, p.Direction, limitOrDefault(p.Limit), p.Offset)
	params["join_categories"] = len(p.Categories) > 0

	query, err := render("datasets", params)
	if err != nil {
		r.logger.Error("rendering datasets query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixDatasets, query)
}

// DatasetVersions lists the published versions of one logical article,
// newest version first.
func (r *Repository) DatasetVersions(ctx context.Context, articleID int64) []sparql.Row {
	params := r.params()
	params["article_id"] = articleID

	query, err := render("dataset_versions", params)
	if err != nil {
		r.logger.Error("rendering dataset_versions query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixDatasets, query)
}

// LatestPublicDatasets lists the most recently published latest article
// versions, optionally restricted to institution groups.
func (r *Repository) LatestPublicDatasets(ctx context.Context, groupIDs []int64, limit int) []sparql.Row {
	public := true
	latest := true
	return r.Datasets(ctx, DatasetsParams{
		IsPublic:  &public,
		IsLatest:  &latest,
		GroupIDs:  groupIDs,
		Order:     "published_date",
		Direction: "desc",
		Limit:     limit,
	})
}

// AuthorsParams are the optional filters for Authors.
type AuthorsParams struct {
	ID       *int64
	Search   *string
	Email    *string
	OrcidID  *string
	IsActive *bool
	Limit    int
	Offset   int
}

// Authors lists author records matching the given filters.
func (r *Repository) Authors(ctx context.Context, p AuthorsParams) []sparql.Row {
	var filters strings.Builder
	filters.WriteString(rdf.Filter("id", p.ID))
	filters.WriteString(rdf.Filter("email", p.Email))
	filters.WriteString(rdf.Filter("orcid_id", p.OrcidID))
	filters.WriteString(rdf.Filter("is_active", p.IsActive))
	if p.Search != nil {
		filters.WriteString(rdf.ContainsFilter(*p.Search, "full_name", "first_name", "last_name", "email"))
	}

	params := r.params()
	params["filters"] = filters.String()
	params["suffix"] = rdf.Suffix("id", "asc", limitOrDefault(p.Limit), p.Offset)

	query, err := render("authors", params)
	if err != nil {
		r.logger.Error("rendering authors query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixAuthors, query)
}

// ArticleAuthors lists the authors of an article version in insertion
// order by their order index.
func (r *Repository) ArticleAuthors(ctx context.Context, versionID int64) []sparql.Row {
	return r.itemAuthors(ctx, versionID, counters.KindArticleAuthor)
}

// CollectionAuthors lists the authors of a collection version in insertion
// order by their order index.
func (r *Repository) CollectionAuthors(ctx context.Context, versionID int64) []sparql.Row {
	return r.itemAuthors(ctx, versionID, counters.KindCollectionAuthor)
}

func (r *Repository) itemAuthors(ctx context.Context, versionID int64, linkKind counters.Kind) []sparql.Row {
	params := r.params()
	params["link_type"] = className(linkKind)
	params["item_version_id"] = versionID

	query, err := render("item_authors", params)
	if err != nil {
		r.logger.Error("rendering item_authors query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// ArticleFiles lists the files of an article version. A non-nil fileID
// narrows the result to a single file.
func (r *Repository) ArticleFiles(ctx context.Context, versionID int64, fileID *int64) []sparql.Row {
	params := r.params()
	params["article_version_id"] = versionID
	params["filters"] = rdf.Filter("id", fileID)
	params["suffix"] = rdf.Suffix("order_index", "asc", 0, 0)

	query, err := render("article_files", params)
	if err != nil {
		r.logger.Error("rendering article_files query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// ArticleReferences lists the reference URLs of an article version.
func (r *Repository) ArticleReferences(ctx context.Context, versionID int64, url *string) []sparql.Row {
	params := r.params()
	params["article_version_id"] = versionID
	params["filters"] = rdf.Filter("url", url)

	query, err := render("references", params)
	if err != nil {
		r.logger.Error("rendering references query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// CustomFields lists the custom metadata fields of an article version. A
// non-nil name narrows to one field.
func (r *Repository) CustomFields(ctx context.Context, versionID int64, name *string) []sparql.Row {
	params := r.params()
	params["article_version_id"] = versionID
	params["filters"] = rdf.Filter("name", name)

	query, err := render("custom_fields", params)
	if err != nil {
		r.logger.Error("rendering custom_fields query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// EmbargoOptions lists the embargo options of an article version.
func (r *Repository) EmbargoOptions(ctx context.Context, versionID int64) []sparql.Row {
	params := r.params()
	params["article_version_id"] = versionID

	query, err := render("embargo_options", params)
	if err != nil {
		r.logger.Error("rendering embargo_options query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// Tags lists the tags of an item version.
func (r *Repository) Tags(ctx context.Context, versionID int64, itemType string) []sparql.Row {
	params := r.params()
	params["link_type"] = tagClass(itemType)
	params["item_version_id"] = versionID

	query, err := render("tags", params)
	if err != nil {
		r.logger.Error("rendering tags query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// CategoriesParams are the optional filters for Categories.
type CategoriesParams struct {
	IDs      []int64
	SourceID *int64
	Limit    int
	Offset   int
}

// Categories lists taxonomy categories matching the given filters.
func (r *Repository) Categories(ctx context.Context, p CategoriesParams) []sparql.Row {
	var filters strings.Builder
	filters.WriteString(rdf.InFilter("id", p.IDs, false))
	filters.WriteString(rdf.Filter("source_id", p.SourceID))

	params := r.params()
	params["filters"] = filters.String()
	params["suffix"] = rdf.Suffix("id", "asc", limitOrDefault(p.Limit), p.Offset)

	query, err := render("categories", params)
	if err != nil {
		r.logger.Error("rendering categories query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixCategory, query)
}

// CategoryByID returns the category with the given id, or false.
func (r *Repository) CategoryByID(ctx context.Context, id int64) (sparql.Row, bool) {
	rows := r.Categories(ctx, CategoriesParams{IDs: []int64{id}, Limit: 1})
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

// RootCategories lists the categories without a parent.
func (r *Repository) RootCategories(ctx context.Context) []sparql.Row {
	query, err := render("root_categories", r.params())
	if err != nil {
		r.logger.Error("rendering root_categories query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixCategory, query)
}

// Subcategories lists the direct children of a category.
func (r *Repository) Subcategories(ctx context.Context, parentID int64) []sparql.Row {
	params := r.params()
	params["parent_id"] = parentID

	query, err := render("subcategories", params)
	if err != nil {
		r.logger.Error("rendering subcategories query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixCategory, query)
}

// CategoryNode pairs a root category with its direct subcategories.
type CategoryNode struct {
	Category      sparql.Row
	Subcategories []sparql.Row
}

// CategoryTree returns every root category together with its direct
// children, in root order.
func (r *Repository) CategoryTree(ctx context.Context) []CategoryNode {
	roots := r.RootCategories(ctx)
	tree := make([]CategoryNode, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, CategoryNode{
			Category:      root,
			Subcategories: r.Subcategories(ctx, root.Int("id")),
		})
	}
	return tree
}

// ItemCategories lists the categories linked to an item version.
func (r *Repository) ItemCategories(ctx context.Context, versionID int64, itemType string) []sparql.Row {
	params := r.params()
	params["link_type"] = categoryLinkClass(itemType)
	params["item_version_id"] = versionID

	query, err := render("item_categories", params)
	if err != nil {
		r.logger.Error("rendering item_categories query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// AccountCategories lists the categories an account follows.
func (r *Repository) AccountCategories(ctx context.Context, accountID int64) []sparql.Row {
	params := r.params()
	params["account_id"] = accountID

	query, err := render("account_categories", params)
	if err != nil {
		r.logger.Error("rendering account_categories query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixCategory, query)
}

// PrivateLinks lists the private links of an item version. A non-nil
// idString narrows to a single link.
func (r *Repository) PrivateLinks(ctx context.Context, versionID int64, itemType string, idString *string) []sparql.Row {
	params := r.params()
	params["item_version_id"] = versionID
	params["item_type"] = itemType
	params["filters"] = rdf.Filter("id_string", idString)

	query, err := render("private_links", params)
	if err != nil {
		r.logger.Error("rendering private_links query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// CollectionsParams are the optional filters for Collections.
type CollectionsParams struct {
	ID        *int64
	VersionID *int64
	AccountID *int64
	DOI       *string
	Search    *string
	GroupIDs  []int64
	IsPublic  *bool
	IsLatest  *bool
	Order     string
	Direction string
	Limit     int
	Offset    int
}

// Collections lists collection versions matching the given filters.
func (r *Repository) Collections(ctx context.Context, p CollectionsParams) []sparql.Row {
	var filters strings.Builder
	filters.WriteString(rdf.Filter("id", p.ID))
	filters.WriteString(rdf.Filter("version_id", p.VersionID))
	filters.WriteString(rdf.Filter("account_id", p.AccountID))
	filters.WriteString(rdf.Filter("doi", p.DOI))
	filters.WriteString(rdf.Filter("is_public", p.IsPublic))
	filters.WriteString(rdf.Filter("is_latest", p.IsLatest))
	filters.WriteString(rdf.InFilter("group_id", p.GroupIDs, false))
	if p.Search != nil {
		filters.WriteString(rdf.ContainsFilter(*p.Search, "title", "description"))
	}

	params := r.params()
	params["filters"] = filters.String()
	params["suffix"] = rdf.Suffix(p.Order, p.Direction, limitOrDefault(p.Limit), p.Offset)

	query, err := render("collections", params)
	if err != nil {
		r.logger.Error("rendering collections query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixCollection, query)
}

// CollectionVersions lists the public versions of one logical collection.
func (r *Repository) CollectionVersions(ctx context.Context, collectionID int64) []sparql.Row {
	public := true
	return r.Collections(ctx, CollectionsParams{
		ID:        &collectionID,
		IsPublic:  &public,
		Order:     "version",
		Direction: "desc",
		Limit:     -1,
	})
}

// CollectionArticles lists the latest article versions in a collection, in
// insertion order by their order index.
func (r *Repository) CollectionArticles(ctx context.Context, collectionVersionID int64) []sparql.Row {
	params := r.params()
	params["collection_version_id"] = collectionVersionID

	query, err := render("collection_articles", params)
	if err != nil {
		r.logger.Error("rendering collection_articles query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixCollection, query)
}

// CollectionsFromArticle lists the collections containing an article.
func (r *Repository) CollectionsFromArticle(ctx context.Context, articleID int64) []sparql.Row {
	params := r.params()
	params["article_id"] = articleID

	query, err := render("collections_from_article", params)
	if err != nil {
		r.logger.Error("rendering collections_from_article query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixCollection, query)
}

// CollectionArticleCount returns the number of articles in a collection
// version.
func (r *Repository) CollectionArticleCount(ctx context.Context, collectionVersionID int64) int64 {
	params := r.params()
	params["collection_version_id"] = collectionVersionID

	query, err := render("collection_articles_count", params)
	if err != nil {
		r.logger.Error("rendering collection_articles_count query failed", "error", err)
		return 0
	}
	rows := r.runQuery(ctx, prefixCollection, query)
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Int("articles")
}

// Fundings lists the funding records of an article version.
func (r *Repository) Fundings(ctx context.Context, versionID int64) []sparql.Row {
	params := r.params()
	params["article_version_id"] = versionID

	query, err := render("fundings", params)
	if err != nil {
		r.logger.Error("rendering fundings query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, versionPrefix(versionID), query)
}

// AccountsParams are the optional filters for Accounts.
type AccountsParams struct {
	ID       *int64
	Email    *string
	Orcid    *string
	Search   *string
	IsActive *bool
	Limit    int
	Offset   int
}

// Accounts lists account records matching the given filters, with the
// configuration-sourced privileges merged onto every row.
func (r *Repository) Accounts(ctx context.Context, p AccountsParams) []sparql.Row {
	var filters strings.Builder
	filters.WriteString(rdf.Filter("id", p.ID))
	filters.WriteString(rdf.Filter("email", p.Email))
	filters.WriteString(rdf.Filter("orcid_id", p.Orcid))
	filters.WriteString(rdf.Filter("active", p.IsActive))
	if p.Search != nil {
		filters.WriteString(rdf.ContainsFilter(*p.Search, "email", "first_name", "last_name", "full_name"))
	}

	params := r.params()
	params["filters"] = filters.String()
	params["suffix"] = rdf.Suffix("id", "asc", limitOrDefault(p.Limit), p.Offset)

	query, err := render("accounts", params)
	if err != nil {
		r.logger.Error("rendering accounts query failed", "error", err)
		return []sparql.Row{}
	}

	rows := r.runQuery(ctx, prefixAccounts, query)
	merged := make([]sparql.Row, len(rows))
	for i, row := range rows {
		merged[i] = mergePrivileges(row, r.privileges)
	}
	return merged
}

// AccountByID returns the account with the given id, or false.
func (r *Repository) AccountByID(ctx context.Context, id int64) (sparql.Row, bool) {
	rows := r.Accounts(ctx, AccountsParams{ID: &id, Limit: 1})
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

// AccountByOrcid returns the account with the given ORCID, or false.
func (r *Repository) AccountByOrcid(ctx context.Context, orcid string) (sparql.Row, bool) {
	rows := r.Accounts(ctx, AccountsParams{Orcid: &orcid, Limit: 1})
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

// AccountByToken resolves a session token to its account row, with
// privileges merged, or false when the token is unknown.
func (r *Repository) AccountByToken(ctx context.Context, token string) (sparql.Row, bool) {
	params := r.params()
	params["token"] = token

	query, err := render("account_by_token", params)
	if err != nil {
		r.logger.Error("rendering account_by_token query failed", "error", err)
		return nil, false
	}

	rows := r.runQuery(ctx, prefixSession, query)
	if len(rows) == 0 {
		return nil, false
	}
	return mergePrivileges(rows[0], r.privileges), true
}

// AccountSessions lists the sessions of an account, newest first.
func (r *Repository) AccountSessions(ctx context.Context, accountID int64) []sparql.Row {
	params := r.params()
	params["account_id"] = accountID

	query, err := render("account_sessions", params)
	if err != nil {
		r.logger.Error("rendering account_sessions query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixSession, query)
}

// DatasetStorageUsed returns the total bytes of the files attached to one
// article version.
func (r *Repository) DatasetStorageUsed(ctx context.Context, versionID int64) int64 {
	params := r.params()
	params["article_version_id"] = versionID

	query, err := render("dataset_storage_used", params)
	if err != nil {
		r.logger.Error("rendering dataset_storage_used query failed", "error", err)
		return 0
	}
	rows := r.runQuery(ctx, versionPrefix(versionID), query)
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Int("bytes")
}

// AccountStorageUsed returns the total bytes used by an account's article
// files.
func (r *Repository) AccountStorageUsed(ctx context.Context, accountID int64) int64 {
	params := r.params()
	params["account_id"] = accountID

	query, err := render("storage_used", params)
	if err != nil {
		r.logger.Error("rendering storage_used query failed", "error", err)
		return 0
	}
	rows := r.runQuery(ctx, prefixStorage, query)
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Int("bytes")
}

// GroupsParams are the optional filters for Groups.
type GroupsParams struct {
	ID       *int64
	ParentID *int64
	Name     *string
}

// Groups lists institution groups matching the given filters.
func (r *Repository) Groups(ctx context.Context, p GroupsParams) []sparql.Row {
	var filters strings.Builder
	filters.WriteString(rdf.Filter("id", p.ID))
	filters.WriteString(rdf.Filter("parent_id", p.ParentID))
	filters.WriteString(rdf.Filter("name", p.Name))

	params := r.params()
	params["filters"] = filters.String()
	params["suffix"] = rdf.Suffix("id", "asc", 0, 0)

	query, err := render("groups", params)
	if err != nil {
		r.logger.Error("rendering groups query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixGroup, query)
}

// GroupByName returns the institution group with the given exact name, or
// false.
func (r *Repository) GroupByName(ctx context.Context, name string) (sparql.Row, bool) {
	rows := r.Groups(ctx, GroupsParams{Name: &name})
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

// Licenses lists the license records, ordered by name. An id restricts the
// result to one license.
func (r *Repository) Licenses(ctx context.Context, id *int64) []sparql.Row {
	params := r.params()
	params["filters"] = rdf.Filter("id", id)

	query, err := render("licenses", params)
	if err != nil {
		r.logger.Error("rendering licenses query failed", "error", err)
		return []sparql.Row{}
	}
	return r.runQuery(ctx, prefixLicenses, query)
}

// Statistics returns repository-wide row counts for the primary entity
// kinds.
func (r *Repository) Statistics(ctx context.Context) map[string]int64 {
	kinds := []counters.Kind{
		counters.KindArticle,
		counters.KindCollection,
		counters.KindAccount,
		counters.KindAuthor,
		counters.KindFile,
	}

	stats := make(map[string]int64, len(kinds))
	for _, kind := range kinds {
		params := r.params()
		params["type"] = className(kind)

		query, err := render("count_rows", params)
		if err != nil {
			r.logger.Error("rendering count_rows query failed", "error", err)
			continue
		}
		rows := r.runQuery(ctx, prefixStatistics, query)
		if len(rows) == 0 {
			continue
		}
		stats[kind.String()+"s"] = rows[0].Int("count")
	}
	return stats
}

// tagClass maps an item type to its tag link class.
func tagClass(itemType string) string {
	if itemType == ItemTypeCollection {
		return className(counters.KindCollectionTag)
	}
	return className(counters.KindArticleTag)
}

// categoryLinkClass maps an item type to its category link class.
func categoryLinkClass(itemType string) string {
	if itemType == ItemTypeCollection {
		return className(counters.KindCollectionCategory)
	}
	return className(counters.KindArticleCategory)
}

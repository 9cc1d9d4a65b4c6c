package repository

import (
	"context"
	"fmt"

	"github.com/scidepot/depot/counters"
	"github.com/scidepot/depot/pkg/timefmt"
	"github.com/scidepot/depot/rdf"
)

// stringParam renders an optional string into template parameters; absent
// values render nothing in the template.
func stringParam(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// intParam renders an optional integer for template substitution.
func intParam(value *int64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%d", *value)
}

// ArticleUpdate carries the full replacement field set for an article
// version. Fields left nil are removed from the record, not preserved.
type ArticleUpdate struct {
	VersionID   int64
	Title       *string
	Description *string
	DefinedType *string
	DOI         *string
	Thumb       *string
	LicenseID   *int64
	GroupID     *int64
	IsPublic    bool
	IsEditable  bool
}

// UpdateArticle patches the named fields of an article version and stamps
// its modification date.
func (r *Repository) UpdateArticle(ctx context.Context, update ArticleUpdate) error {
	params := r.params()
	params["version_id"] = update.VersionID
	params["modified_date"] = timefmt.Now()
	params["title"] = stringParam(update.Title)
	params["description"] = stringParam(update.Description)
	params["defined_type"] = stringParam(update.DefinedType)
	params["doi"] = stringParam(update.DOI)
	params["thumb"] = stringParam(update.Thumb)
	params["license_id"] = intParam(update.LicenseID)
	params["group_id"] = intParam(update.GroupID)
	params["is_public"] = boolDigit(update.IsPublic)
	params["is_editable"] = boolDigit(update.IsEditable)

	query, err := render("update_article", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "UpdateArticle", query,
		prefixDatasets, prefixArticle, versionPrefix(update.VersionID))
}

// CollectionUpdate carries the full replacement field set for a collection
// version.
type CollectionUpdate struct {
	VersionID   int64
	Title       *string
	Description *string
	DOI         *string
	GroupID     *int64
	IsPublic    bool
	IsEditable  bool
}

// UpdateCollection patches the named fields of a collection version.
func (r *Repository) UpdateCollection(ctx context.Context, update CollectionUpdate) error {
	params := r.params()
	params["version_id"] = update.VersionID
	params["modified_date"] = timefmt.Now()
	params["title"] = stringParam(update.Title)
	params["description"] = stringParam(update.Description)
	params["doi"] = stringParam(update.DOI)
	params["group_id"] = intParam(update.GroupID)
	params["is_public"] = boolDigit(update.IsPublic)
	params["is_editable"] = boolDigit(update.IsEditable)

	query, err := render("update_collection", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "UpdateCollection", query,
		prefixCollection, versionPrefix(update.VersionID))
}

// UpdateArticleThumb replaces the thumbnail of an article version. A nil
// thumb removes it.
func (r *Repository) UpdateArticleThumb(ctx context.Context, versionID int64, thumb *string) error {
	params := r.params()
	params["version_id"] = versionID
	params["thumb"] = stringParam(thumb)

	query, err := render("update_article_thumb", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "UpdateArticleThumb", query,
		prefixDatasets, prefixArticle, versionPrefix(versionID))
}

// UpdateAccount patches the account record's profile and quota fields.
func (r *Repository) UpdateAccount(ctx context.Context, account Account) error {
	params := r.params()
	params["account_id"] = account.ID
	params["modified_date"] = timefmt.Now()
	params["active"] = boolDigit(account.Active)
	params["email"] = stringParam(account.Email)
	params["first_name"] = stringParam(account.FirstName)
	params["last_name"] = stringParam(account.LastName)
	params["full_name"] = stringParam(account.FullName)
	params["institution_user_id"] = stringParam(account.InstitutionUserID)
	params["institution_id"] = intParam(account.InstitutionID)
	params["group_id"] = intParam(account.GroupID)
	params["pending_quota_request"] = intParam(account.PendingQuotaRequest)
	params["used_quota"] = intParam(account.UsedQuota)
	params["used_quota_public"] = intParam(account.UsedQuotaPublic)
	params["used_quota_private"] = intParam(account.UsedQuotaPrivate)
	params["quota"] = intParam(account.Quota)
	params["maximum_file_size"] = intParam(account.MaximumFileSize)

	query, err := render("update_account", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "UpdateAccount", query, prefixAccounts)
}

// FileUpdate carries the replaceable fields of a file record.
type FileUpdate struct {
	FileID       int64
	Name         *string
	Size         *int64
	DownloadURL  *string
	ComputedMD5  *string
	ViewerType   *string
	PreviewState *string
	Status       *string
}

// UpdateFileRecord patches a file record after upload processing. The
// owning article version scopes the cache invalidation.
func (r *Repository) UpdateFileRecord(ctx context.Context, versionID int64, update FileUpdate) error {
	params := r.params()
	params["file_id"] = update.FileID
	params["name"] = stringParam(update.Name)
	params["size"] = intParam(update.Size)
	params["download_url"] = stringParam(update.DownloadURL)
	params["computed_md5"] = stringParam(update.ComputedMD5)
	params["viewer_type"] = stringParam(update.ViewerType)
	params["preview_state"] = stringParam(update.PreviewState)
	params["status"] = stringParam(update.Status)

	query, err := render("update_file", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "UpdateFileRecord", query,
		prefixArticle, prefixStorage, versionPrefix(versionID))
}

// RenameSession sets the human label of a session identified by its token.
func (r *Repository) RenameSession(ctx context.Context, accountID int64, token string, name *string) error {
	params := r.params()
	params["account_id"] = accountID
	params["token"] = token
	params["name"] = stringParam(name)

	query, err := render("update_session", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "RenameSession", query, prefixSession)
}

// UpdatePrivateLink patches the active flag, read-only flag and expiry of a
// private link.
func (r *Repository) UpdatePrivateLink(ctx context.Context, idString string, versionID int64, itemType string, isActive, readOnly bool, expiresDate *string) error {
	params := r.params()
	params["id_string"] = idString
	params["item_version_id"] = versionID
	params["is_active"] = boolDigit(isActive)
	params["read_only"] = boolDigit(readOnly)
	params["expires_date"] = stringParam(expiresDate)

	query, err := render("update_private_link", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "UpdatePrivateLink", query,
		itemPrefix(itemType), versionPrefix(versionID))
}

// deleteRows removes every row of a class matching the property constraints
// and the optional extra pattern text.
func (r *Repository) deleteRows(ctx context.Context, operation string, kind counters.Kind, constraints map[string]any, extra string, prefixes ...string) error {
	params := r.params()
	params["type"] = className(kind)
	params["constraints"] = propertyConstraints(constraints)
	params["filters"] = extra

	query, err := render("delete_rows", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, operation, query, prefixes...)
}

// DeleteItemCategories unlinks categories from an item version. A non-empty
// categoryIDs set restricts the removal to those categories; empty removes
// them all.
func (r *Repository) DeleteItemCategories(ctx context.Context, versionID int64, itemType string, categoryIDs []int64) error {
	linkKind := counters.KindArticleCategory
	if itemType == ItemTypeCollection {
		linkKind = counters.KindCollectionCategory
	}

	var extra string
	if len(categoryIDs) > 0 {
		extra = "  ?row col:category_id ?category_id .\n" +
			rdf.InFilter("category_id", categoryIDs, false)
	}

	return r.deleteRows(ctx, "DeleteItemCategories", linkKind,
		map[string]any{"item_version_id": versionID}, extra,
		itemPrefix(itemType), versionPrefix(versionID), prefixCategory)
}

// UpdateItemCategories replaces the category set of an item version with
// exactly the given ids, using delete-then-reinsert-all semantics.
func (r *Repository) UpdateItemCategories(ctx context.Context, versionID int64, itemType string, categoryIDs []int64) error {
	if err := r.DeleteItemCategories(ctx, versionID, itemType, nil); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		if err := r.InsertItemCategory(ctx, categoryID, versionID, itemType); err != nil {
			return err
		}
	}
	return nil
}

// DeleteItemAuthors unlinks every author from an item version. The author
// records themselves survive.
func (r *Repository) DeleteItemAuthors(ctx context.Context, versionID int64, itemType string) error {
	linkKind := counters.KindArticleAuthor
	if itemType == ItemTypeCollection {
		linkKind = counters.KindCollectionAuthor
	}
	return r.deleteRows(ctx, "DeleteItemAuthors", linkKind,
		map[string]any{"item_version_id": versionID}, "",
		itemPrefix(itemType), versionPrefix(versionID))
}

// UpdateCollectionArticles replaces the article list of a collection
// version with exactly the given ids, preserving the given order.
func (r *Repository) UpdateCollectionArticles(ctx context.Context, collectionVersionID int64, articleIDs []int64) error {
	err := r.deleteRows(ctx, "UpdateCollectionArticles", counters.KindCollectionArticle,
		map[string]any{"collection_version_id": collectionVersionID}, "",
		prefixCollection, versionPrefix(collectionVersionID))
	if err != nil {
		return err
	}
	for index, articleID := range articleIDs {
		if err := r.InsertCollectionArticle(ctx, collectionVersionID, articleID, int64(index)); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTags removes tags from an item version. An empty tags set removes
// them all.
func (r *Repository) DeleteTags(ctx context.Context, versionID int64, itemType string, tags []string) error {
	linkKind := counters.KindArticleTag
	if itemType == ItemTypeCollection {
		linkKind = counters.KindCollectionTag
	}

	var extra string
	if len(tags) > 0 {
		extra = "  ?row col:tag ?tag .\n" + rdf.InFilter("tag", tags, false)
	}

	return r.deleteRows(ctx, "DeleteTags", linkKind,
		map[string]any{"item_version_id": versionID}, extra,
		itemPrefix(itemType), versionPrefix(versionID))
}

// DeleteReferences removes reference URLs from an article version. A
// non-nil url removes only that reference.
func (r *Repository) DeleteReferences(ctx context.Context, versionID int64, url *string) error {
	constraints := map[string]any{"article_version_id": versionID}
	if url != nil {
		constraints["url"] = *url
	}
	return r.deleteRows(ctx, "DeleteReferences", counters.KindReference,
		constraints, "", prefixArticle, versionPrefix(versionID))
}

// DeleteEmbargo removes the embargo options of an article version.
func (r *Repository) DeleteEmbargo(ctx context.Context, versionID int64) error {
	return r.deleteRows(ctx, "DeleteEmbargo", counters.KindEmbargo,
		map[string]any{"article_version_id": versionID}, "",
		prefixDatasets, prefixArticle, versionPrefix(versionID))
}

// DeleteFile removes a file record and its link to the article version.
func (r *Repository) DeleteFile(ctx context.Context, fileID, versionID int64) error {
	err := r.deleteRows(ctx, "DeleteFile", counters.KindArticleFile,
		map[string]any{"article_version_id": versionID, "file_id": fileID}, "",
		prefixArticle, versionPrefix(versionID), prefixStorage)
	if err != nil {
		return err
	}
	return r.deleteRows(ctx, "DeleteFile", counters.KindFile,
		map[string]any{"id": fileID}, "",
		prefixArticle, versionPrefix(versionID), prefixStorage)
}

// DeleteArticleFiles removes every file of an article version, record and
// link both.
func (r *Repository) DeleteArticleFiles(ctx context.Context, versionID int64) error {
	for _, file := range r.ArticleFiles(ctx, versionID, nil) {
		if err := r.DeleteFile(ctx, file.Int("id"), versionID); err != nil {
			return err
		}
	}
	return nil
}

// DeletePrivateLink removes one private link from an item version.
func (r *Repository) DeletePrivateLink(ctx context.Context, idString string, versionID int64, itemType string) error {
	return r.deleteRows(ctx, "DeletePrivateLink", counters.KindPrivateLink,
		map[string]any{"id_string": idString, "item_version_id": versionID}, "",
		itemPrefix(itemType), versionPrefix(versionID))
}

// DeleteSession removes a session by its token. The account id guard keeps
// one account from revoking another's session.
func (r *Repository) DeleteSession(ctx context.Context, accountID int64, token string) error {
	return r.deleteRows(ctx, "DeleteSession", counters.KindSession,
		map[string]any{"account_id": accountID, "token": token}, "",
		prefixSession)
}

// DeleteSessionByID removes a session by its record id, with the same
// account guard as DeleteSession.
func (r *Repository) DeleteSessionByID(ctx context.Context, accountID, sessionID int64) error {
	return r.deleteRows(ctx, "DeleteSessionByID", counters.KindSession,
		map[string]any{"account_id": accountID, "id": sessionID}, "",
		prefixSession)
}

// DeleteAccountCategories unsubscribes an account from categories. An empty
// set removes all subscriptions.
func (r *Repository) DeleteAccountCategories(ctx context.Context, accountID int64, categoryIDs []int64) error {
	var extra string
	if len(categoryIDs) > 0 {
		extra = "  ?row col:category_id ?category_id .\n" +
			rdf.InFilter("category_id", categoryIDs, false)
	}
	return r.deleteRows(ctx, "DeleteAccountCategories", counters.KindAccountCategory,
		map[string]any{"account_id": accountID}, extra,
		prefixCategory, prefixAccounts)
}

// DeleteArticleVersion removes one article version and the child records it
// owns: author links, file links and rows, tags, category links, funding,
// custom fields, embargo options, references and private links. Other
// versions of the logical article are untouched. Each removal is its own
// store request; partial failure leaves orphans for manual reconciliation.
func (r *Repository) DeleteArticleVersion(ctx context.Context, versionID int64) error {
	byVersion := map[string]any{"article_version_id": versionID}
	byItem := map[string]any{"item_version_id": versionID}
	prefixes := []string{prefixDatasets, prefixArticle, versionPrefix(versionID), prefixStatistics, prefixStorage}

	if err := r.DeleteArticleFiles(ctx, versionID); err != nil {
		return err
	}

	steps := []struct {
		kind        counters.Kind
		constraints map[string]any
	}{
		{counters.KindArticleAuthor, byItem},
		{counters.KindArticleTag, byItem},
		{counters.KindArticleCategory, byItem},
		{counters.KindFunding, byVersion},
		{counters.KindCustomField, byVersion},
		{counters.KindEmbargo, byVersion},
		{counters.KindReference, byVersion},
		{counters.KindPrivateLink, byItem},
		{counters.KindArticle, map[string]any{"version_id": versionID}},
	}
	for _, step := range steps {
		if err := r.deleteRows(ctx, "DeleteArticleVersion", step.kind,
			step.constraints, "", prefixes...); err != nil {
			return err
		}
	}
	return nil
}

// DeleteArticle removes a whole logical article: every version it has,
// each with the child records that version owns.
func (r *Repository) DeleteArticle(ctx context.Context, articleID int64) error {
	versions := r.Datasets(ctx, DatasetsParams{ID: &articleID, Limit: -1})
	for _, version := range versions {
		if err := r.DeleteArticleVersion(ctx, version.Int("version_id")); err != nil {
			return err
		}
	}
	return nil
}

// DeleteCollectionVersion removes one collection version and the child
// records it owns.
func (r *Repository) DeleteCollectionVersion(ctx context.Context, versionID int64) error {
	byItem := map[string]any{"item_version_id": versionID}
	prefixes := []string{prefixCollection, versionPrefix(versionID), prefixStatistics}

	steps := []struct {
		kind        counters.Kind
		constraints map[string]any
	}{
		{counters.KindCollectionAuthor, byItem},
		{counters.KindCollectionTag, byItem},
		{counters.KindCollectionCategory, byItem},
		{counters.KindCollectionArticle, map[string]any{"collection_version_id": versionID}},
		{counters.KindPrivateLink, byItem},
		{counters.KindCollection, map[string]any{"version_id": versionID}},
	}
	for _, step := range steps {
		if err := r.deleteRows(ctx, "DeleteCollectionVersion", step.kind,
			step.constraints, "", prefixes...); err != nil {
			return err
		}
	}
	return nil
}

// DeleteCollection removes a whole logical collection, version by version.
func (r *Repository) DeleteCollection(ctx context.Context, collectionID int64) error {
	versions := r.Collections(ctx, CollectionsParams{ID: &collectionID, Limit: -1})
	for _, version := range versions {
		if err := r.DeleteCollectionVersion(ctx, version.Int("version_id")); err != nil {
			return err
		}
	}
	return nil
}

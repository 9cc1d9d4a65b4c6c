package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scidepot/depot/counters"
	"github.com/scidepot/depot/pkg/timefmt"
	"github.com/scidepot/depot/rdf"
)

// rowSubject returns the subject IRI for a record row.
func (r *Repository) rowSubject(kind counters.Kind, id int64) string {
	return r.base + "/row/" + fmt.Sprintf("%s_%d", kind.String(), id)
}

// typeIRI returns the class IRI for a kind.
func (r *Repository) typeIRI(kind counters.Kind) string {
	return r.base + "/type/" + className(kind)
}

// colIRI returns the predicate IRI for a field.
func (r *Repository) colIRI(name string) string {
	return r.base + "/column/" + name
}

// insertGraph serializes and executes one insert subgraph, then invalidates
// the given prefixes.
func (r *Repository) insertGraph(ctx context.Context, operation string, g *rdf.Graph, prefixes ...string) error {
	return r.runUpdate(ctx, operation, rdf.InsertQuery(r.stateGraph, g), prefixes...)
}

// nextID allocates an identifier or fails when the allocator is unset.
func (r *Repository) nextID(kind counters.Kind) (int64, error) {
	return r.allocator.NextID(kind)
}

// InsertTimeline creates a timeline record and returns its id. A nil or
// empty timeline inserts nothing and returns zero.
func (r *Repository) InsertTimeline(ctx context.Context, tl *Timeline) (int64, error) {
	if tl.empty() {
		return 0, nil
	}

	id, err := r.nextID(counters.KindTimeline)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindTimeline, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindTimeline))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("revision"), tl.Revision)
	g.Add(subject, r.colIRI("firstOnline"), tl.FirstOnline)
	g.Add(subject, r.colIRI("publisherPublication"), tl.PublisherPublication)
	g.Add(subject, r.colIRI("publisherAcceptance"), tl.PublisherAcceptance)
	g.Add(subject, r.colIRI("posted"), tl.Posted)
	g.Add(subject, r.colIRI("submission"), tl.Submission)

	if err := r.insertGraph(ctx, "InsertTimeline", g); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertAuthor creates an author record and returns its id. An author that
// already carries an id is returned as-is without touching the store.
func (r *Repository) InsertAuthor(ctx context.Context, author Author) (int64, error) {
	if author.ID != 0 {
		return author.ID, nil
	}

	id, err := r.nextID(counters.KindAuthor)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindAuthor, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindAuthor))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("full_name"), author.FullName)
	g.Add(subject, r.colIRI("first_name"), author.FirstName)
	g.Add(subject, r.colIRI("last_name"), author.LastName)
	g.Add(subject, r.colIRI("email"), author.Email)
	g.Add(subject, r.colIRI("orcid_id"), author.OrcidID)
	g.Add(subject, r.colIRI("job_title"), author.JobTitle)
	g.Add(subject, r.colIRI("institution_id"), author.InstitutionID)
	g.Add(subject, r.colIRI("group_id"), author.GroupID)
	g.Add(subject, r.colIRI("is_active"), author.IsActive)
	g.Add(subject, r.colIRI("is_public"), author.IsPublic)

	if err := r.insertGraph(ctx, "InsertAuthor", g, prefixAuthors, prefixStatistics); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertItemAuthor links an author to an item version at the given order
// index. Author order on an item is the insertion order of these links.
func (r *Repository) InsertItemAuthor(ctx context.Context, authorID, versionID int64, itemType string, orderIndex int64) error {
	linkKind := counters.KindArticleAuthor
	if itemType == ItemTypeCollection {
		linkKind = counters.KindCollectionAuthor
	}

	id, err := r.nextID(linkKind)
	if err != nil {
		return err
	}

	subject := r.rowSubject(linkKind, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(linkKind))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("item_version_id"), versionID)
	g.Add(subject, r.colIRI("author_id"), authorID)
	g.Add(subject, r.colIRI("order_index"), orderIndex)

	return r.insertGraph(ctx, "InsertItemAuthor", g,
		itemPrefix(itemType), versionPrefix(versionID))
}

// InsertTag attaches one tag to an item version.
func (r *Repository) InsertTag(ctx context.Context, tag string, versionID int64, itemType string) error {
	linkKind := counters.KindArticleTag
	if itemType == ItemTypeCollection {
		linkKind = counters.KindCollectionTag
	}

	id, err := r.nextID(linkKind)
	if err != nil {
		return err
	}

	subject := r.rowSubject(linkKind, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(linkKind))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("item_version_id"), versionID)
	g.Add(subject, r.colIRI("tag"), tag)

	return r.insertGraph(ctx, "InsertTag", g,
		itemPrefix(itemType), versionPrefix(versionID))
}

// InsertItemCategory links a category to an item version.
func (r *Repository) InsertItemCategory(ctx context.Context, categoryID, versionID int64, itemType string) error {
	linkKind := counters.KindArticleCategory
	if itemType == ItemTypeCollection {
		linkKind = counters.KindCollectionCategory
	}

	id, err := r.nextID(linkKind)
	if err != nil {
		return err
	}

	subject := r.rowSubject(linkKind, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(linkKind))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("item_version_id"), versionID)
	g.Add(subject, r.colIRI("category_id"), categoryID)

	return r.insertGraph(ctx, "InsertItemCategory", g,
		itemPrefix(itemType), versionPrefix(versionID), prefixCategory)
}

// InsertAccountCategory subscribes an account to a category.
func (r *Repository) InsertAccountCategory(ctx context.Context, categoryID, accountID int64) error {
	id, err := r.nextID(counters.KindAccountCategory)
	if err != nil {
		return err
	}

	subject := r.rowSubject(counters.KindAccountCategory, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindAccountCategory))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("account_id"), accountID)
	g.Add(subject, r.colIRI("category_id"), categoryID)

	return r.insertGraph(ctx, "InsertAccountCategory", g, prefixCategory, prefixAccounts)
}

// InsertReference attaches a reference URL to an article version.
func (r *Repository) InsertReference(ctx context.Context, url string, versionID int64) error {
	id, err := r.nextID(counters.KindReference)
	if err != nil {
		return err
	}

	subject := r.rowSubject(counters.KindReference, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindReference))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("article_version_id"), versionID)
	g.Add(subject, r.colIRI("url"), url)

	return r.insertGraph(ctx, "InsertReference", g,
		prefixArticle, versionPrefix(versionID))
}

// InsertFunding creates a funding record on an article version.
func (r *Repository) InsertFunding(ctx context.Context, funding Funding, versionID int64) (int64, error) {
	id, err := r.nextID(counters.KindFunding)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindFunding, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindFunding))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("article_version_id"), versionID)
	g.Add(subject, r.colIRI("title"), funding.Title)
	g.Add(subject, r.colIRI("grant_code"), funding.GrantCode)
	g.Add(subject, r.colIRI("funder_name"), funding.FunderName)
	g.Add(subject, r.colIRI("url"), funding.URL)
	g.Add(subject, r.colIRI("is_user_defined"), funding.IsUserDefined)

	if err := r.insertGraph(ctx, "InsertFunding", g,
		prefixArticle, versionPrefix(versionID)); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertCustomField creates a custom metadata field on an article version.
func (r *Repository) InsertCustomField(ctx context.Context, field CustomField, versionID int64) (int64, error) {
	id, err := r.nextID(counters.KindCustomField)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindCustomField, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindCustomField))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("article_version_id"), versionID)
	g.Add(subject, r.colIRI("name"), field.Name)
	g.Add(subject, r.colIRI("value"), field.Value)
	g.Add(subject, r.colIRI("default_value"), field.DefaultValue)
	g.Add(subject, r.colIRI("field_type"), field.FieldType)
	g.Add(subject, r.colIRI("max_length"), field.MaxLength)
	g.Add(subject, r.colIRI("min_length"), field.MinLength)
	g.Add(subject, r.colIRI("is_mandatory"), field.IsMandatory)

	if err := r.insertGraph(ctx, "InsertCustomField", g,
		prefixArticle, versionPrefix(versionID)); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertEmbargo creates an embargo option on an article version.
func (r *Repository) InsertEmbargo(ctx context.Context, embargo Embargo, versionID int64) (int64, error) {
	id, err := r.nextID(counters.KindEmbargo)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindEmbargo, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindEmbargo))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("article_version_id"), versionID)
	g.Add(subject, r.colIRI("type"), embargo.Type)
	g.Add(subject, r.colIRI("ip_name"), embargo.IPName)
	g.Add(subject, r.colIRI("reason"), embargo.Reason)
	g.Add(subject, r.colIRI("period"), embargo.Period)

	if err := r.insertGraph(ctx, "InsertEmbargo", g,
		prefixArticle, versionPrefix(versionID)); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertPrivateLink creates a private link on an item version. An empty
// IDString gets a random URL-safe identifier generated.
func (r *Repository) InsertPrivateLink(ctx context.Context, link PrivateLink, versionID int64, itemType string) (string, error) {
	if link.IDString == "" {
		generated, err := NewPrivateLinkID()
		if err != nil {
			return "", err
		}
		link.IDString = generated
	}

	id, err := r.nextID(counters.KindPrivateLink)
	if err != nil {
		return "", err
	}

	subject := r.rowSubject(counters.KindPrivateLink, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindPrivateLink))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("id_string"), link.IDString)
	g.Add(subject, r.colIRI("item_version_id"), versionID)
	g.Add(subject, r.colIRI("item_type"), itemType)
	g.Add(subject, r.colIRI("is_active"), link.IsActive)
	g.Add(subject, r.colIRI("read_only"), link.ReadOnly)
	g.Add(subject, r.colIRI("expires_date"), link.ExpiresDate)

	if err := r.insertGraph(ctx, "InsertPrivateLink", g,
		itemPrefix(itemType), versionPrefix(versionID)); err != nil {
		return "", err
	}
	return link.IDString, nil
}

// InsertFile creates a file record, links it to an article version at the
// given order index, and, for link-only files, flips the owning article's
// linked-file flag. Returns the file id.
func (r *Repository) InsertFile(ctx context.Context, file FileRecord, versionID, orderIndex int64) (int64, error) {
	id, err := r.nextID(counters.KindFile)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindFile, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindFile))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("name"), file.Name)
	g.Add(subject, r.colIRI("size"), file.Size)
	g.Add(subject, r.colIRI("is_link_only"), file.IsLinkOnly)
	g.Add(subject, r.colIRI("download_url"), file.DownloadURL)
	g.Add(subject, r.colIRI("supplied_md5"), file.SuppliedMD5)
	g.Add(subject, r.colIRI("computed_md5"), file.ComputedMD5)
	g.Add(subject, r.colIRI("viewer_type"), file.ViewerType)
	g.Add(subject, r.colIRI("preview_state"), file.PreviewState)
	g.Add(subject, r.colIRI("status"), file.Status)
	g.Add(subject, r.colIRI("upload_url"), file.UploadURL)
	g.Add(subject, r.colIRI("upload_token"), file.UploadToken)

	if err := r.insertGraph(ctx, "InsertFile", g,
		prefixArticle, versionPrefix(versionID), prefixStorage, prefixStatistics); err != nil {
		return 0, err
	}

	linkID, err := r.nextID(counters.KindArticleFile)
	if err != nil {
		return 0, err
	}
	linkSubject := r.rowSubject(counters.KindArticleFile, linkID)
	linkGraph := rdf.NewGraph()
	linkGraph.AddType(linkSubject, r.typeIRI(counters.KindArticleFile))
	linkGraph.Add(linkSubject, r.colIRI("id"), linkID)
	linkGraph.Add(linkSubject, r.colIRI("article_version_id"), versionID)
	linkGraph.Add(linkSubject, r.colIRI("file_id"), id)
	linkGraph.Add(linkSubject, r.colIRI("order_index"), orderIndex)

	if err := r.insertGraph(ctx, "InsertFile", linkGraph,
		prefixArticle, versionPrefix(versionID)); err != nil {
		return 0, err
	}

	if file.IsLinkOnly {
		if err := r.setArticleLinkedFile(ctx, versionID, true); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// setArticleLinkedFile patches the has_linked_file flag on an article
// version.
func (r *Repository) setArticleLinkedFile(ctx context.Context, versionID int64, linked bool) error {
	params := r.params()
	params["article_version_id"] = versionID
	params["has_linked_file"] = boolDigit(linked)

	query, err := render("update_article_linked_file", params)
	if err != nil {
		return err
	}
	return r.runUpdate(ctx, "setArticleLinkedFile", query,
		prefixDatasets, prefixArticle, versionPrefix(versionID))
}

// InsertArticle creates one article version together with all its inline
// child records. The timeline is inserted first, then the child records,
// then the article row itself; a failed child is not rolled back. Returns
// the logical article id and the new version id.
func (r *Repository) InsertArticle(ctx context.Context, article *Article) (int64, int64, error) {
	versionID, err := r.nextID(counters.KindArticle)
	if err != nil {
		return 0, 0, err
	}
	if article.ID == 0 {
		// First version: the logical id is the first version's id.
		article.ID = versionID
	}
	if article.ContainerUUID == "" {
		article.ContainerUUID = uuid.NewString()
	}

	timelineID, err := r.InsertTimeline(ctx, article.Timeline)
	if err != nil {
		return 0, 0, err
	}

	for _, url := range article.References {
		if err := r.InsertReference(ctx, url, versionID); err != nil {
			return 0, 0, err
		}
	}
	for _, tag := range article.Tags {
		if err := r.InsertTag(ctx, tag, versionID, ItemTypeArticle); err != nil {
			return 0, 0, err
		}
	}
	for _, funding := range article.Funding {
		if _, err := r.InsertFunding(ctx, funding, versionID); err != nil {
			return 0, 0, err
		}
	}
	for _, categoryID := range article.Categories {
		if err := r.InsertItemCategory(ctx, categoryID, versionID, ItemTypeArticle); err != nil {
			return 0, 0, err
		}
	}
	for _, embargo := range article.EmbargoOptions {
		if _, err := r.InsertEmbargo(ctx, embargo, versionID); err != nil {
			return 0, 0, err
		}
	}
	for index, author := range article.Authors {
		authorID, err := r.InsertAuthor(ctx, author)
		if err != nil {
			return 0, 0, err
		}
		if err := r.InsertItemAuthor(ctx, authorID, versionID, ItemTypeArticle, int64(index)); err != nil {
			return 0, 0, err
		}
	}
	hasLinkedFile := false
	for index, file := range article.Files {
		if _, err := r.InsertFile(ctx, file, versionID, int64(index)); err != nil {
			return 0, 0, err
		}
		if file.IsLinkOnly {
			hasLinkedFile = true
		}
	}
	for _, field := range article.CustomFields {
		if _, err := r.InsertCustomField(ctx, field, versionID); err != nil {
			return 0, 0, err
		}
	}
	for _, link := range article.PrivateLinks {
		if _, err := r.InsertPrivateLink(ctx, link, versionID, ItemTypeArticle); err != nil {
			return 0, 0, err
		}
	}

	now := timefmt.Now()
	publishedDate := article.PublishedDate
	subject := r.rowSubject(counters.KindArticle, versionID)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindArticle))
	g.Add(subject, r.colIRI("id"), article.ID)
	g.Add(subject, r.colIRI("container_uuid"), article.ContainerUUID)
	g.AddLiteral(subject, r.colIRI("container"),
		rdf.URIRef(rdf.UUIDToURI(article.ContainerUUID, ItemTypeArticle)))
	g.Add(subject, r.colIRI("version_id"), versionID)
	g.Add(subject, r.colIRI("version"), article.Version)
	g.Add(subject, r.colIRI("account_id"), article.AccountID)
	g.Add(subject, r.colIRI("title"), article.Title)
	g.Add(subject, r.colIRI("description"), article.Description)
	g.Add(subject, r.colIRI("defined_type"), article.DefinedType)
	g.Add(subject, r.colIRI("doi"), article.DOI)
	g.Add(subject, r.colIRI("license_id"), article.LicenseID)
	g.Add(subject, r.colIRI("group_id"), article.GroupID)
	g.Add(subject, r.colIRI("thumb"), article.Thumb)
	g.Add(subject, r.colIRI("is_public"), article.IsPublic)
	g.Add(subject, r.colIRI("is_latest"), article.IsLatest)
	g.Add(subject, r.colIRI("is_editable"), article.IsEditable)
	g.Add(subject, r.colIRI("is_active"), article.IsActive)
	g.Add(subject, r.colIRI("has_linked_file"), hasLinkedFile)
	g.Add(subject, r.colIRI("created_date"), now)
	g.Add(subject, r.colIRI("modified_date"), now)
	if publishedDate != nil {
		g.Add(subject, r.colIRI("published_date"), publishedDate)
	} else {
		// Not yet published; readers coerce the sentinel to absent.
		g.Add(subject, r.colIRI("published_date"), "NULL")
	}
	if timelineID != 0 {
		g.Add(subject, r.colIRI("timeline_id"), timelineID)
	}

	if err := r.insertGraph(ctx, "InsertArticle", g,
		prefixDatasets, prefixArticle, versionPrefix(versionID), prefixStatistics, prefixStorage); err != nil {
		return 0, 0, err
	}
	return article.ID, versionID, nil
}

// InsertCollection creates one collection version together with its inline
// child records, in the same order as InsertArticle: timeline, children,
// then the collection row.
func (r *Repository) InsertCollection(ctx context.Context, collection *Collection) (int64, int64, error) {
	versionID, err := r.nextID(counters.KindCollection)
	if err != nil {
		return 0, 0, err
	}
	if collection.ID == 0 {
		collection.ID = versionID
	}
	if collection.ContainerUUID == "" {
		collection.ContainerUUID = uuid.NewString()
	}

	timelineID, err := r.InsertTimeline(ctx, collection.Timeline)
	if err != nil {
		return 0, 0, err
	}

	for _, tag := range collection.Tags {
		if err := r.InsertTag(ctx, tag, versionID, ItemTypeCollection); err != nil {
			return 0, 0, err
		}
	}
	for _, categoryID := range collection.Categories {
		if err := r.InsertItemCategory(ctx, categoryID, versionID, ItemTypeCollection); err != nil {
			return 0, 0, err
		}
	}
	for index, author := range collection.Authors {
		authorID, err := r.InsertAuthor(ctx, author)
		if err != nil {
			return 0, 0, err
		}
		if err := r.InsertItemAuthor(ctx, authorID, versionID, ItemTypeCollection, int64(index)); err != nil {
			return 0, 0, err
		}
	}
	for index, articleID := range collection.ArticleIDs {
		if err := r.InsertCollectionArticle(ctx, versionID, articleID, int64(index)); err != nil {
			return 0, 0, err
		}
	}
	for _, link := range collection.PrivateLinks {
		if _, err := r.InsertPrivateLink(ctx, link, versionID, ItemTypeCollection); err != nil {
			return 0, 0, err
		}
	}

	now := timefmt.Now()
	subject := r.rowSubject(counters.KindCollection, versionID)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindCollection))
	g.Add(subject, r.colIRI("id"), collection.ID)
	g.Add(subject, r.colIRI("container_uuid"), collection.ContainerUUID)
	g.AddLiteral(subject, r.colIRI("container"),
		rdf.URIRef(rdf.UUIDToURI(collection.ContainerUUID, ItemTypeCollection)))
	g.Add(subject, r.colIRI("version_id"), versionID)
	g.Add(subject, r.colIRI("version"), collection.Version)
	g.Add(subject, r.colIRI("account_id"), collection.AccountID)
	g.Add(subject, r.colIRI("title"), collection.Title)
	g.Add(subject, r.colIRI("description"), collection.Description)
	g.Add(subject, r.colIRI("doi"), collection.DOI)
	g.Add(subject, r.colIRI("group_id"), collection.GroupID)
	g.Add(subject, r.colIRI("is_public"), collection.IsPublic)
	g.Add(subject, r.colIRI("is_latest"), collection.IsLatest)
	g.Add(subject, r.colIRI("is_editable"), collection.IsEditable)
	g.Add(subject, r.colIRI("created_date"), now)
	g.Add(subject, r.colIRI("modified_date"), now)
	if collection.PublishedDate != nil {
		g.Add(subject, r.colIRI("published_date"), collection.PublishedDate)
	} else {
		g.Add(subject, r.colIRI("published_date"), "NULL")
	}
	if timelineID != 0 {
		g.Add(subject, r.colIRI("timeline_id"), timelineID)
	}

	if err := r.insertGraph(ctx, "InsertCollection", g,
		prefixCollection, versionPrefix(versionID), prefixStatistics); err != nil {
		return 0, 0, err
	}
	return collection.ID, versionID, nil
}

// InsertCollectionArticle links an article into a collection version at the
// given order index.
func (r *Repository) InsertCollectionArticle(ctx context.Context, collectionVersionID, articleID, orderIndex int64) error {
	id, err := r.nextID(counters.KindCollectionArticle)
	if err != nil {
		return err
	}

	subject := r.rowSubject(counters.KindCollectionArticle, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindCollectionArticle))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("collection_version_id"), collectionVersionID)
	g.Add(subject, r.colIRI("article_id"), articleID)
	g.Add(subject, r.colIRI("order_index"), orderIndex)

	return r.insertGraph(ctx, "InsertCollectionArticle", g,
		prefixCollection, versionPrefix(collectionVersionID))
}

// InsertAccount creates an account record and returns its id.
func (r *Repository) InsertAccount(ctx context.Context, account *Account) (int64, error) {
	id, err := r.nextID(counters.KindAccount)
	if err != nil {
		return 0, err
	}

	now := timefmt.Now()
	subject := r.rowSubject(counters.KindAccount, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindAccount))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("active"), account.Active)
	g.Add(subject, r.colIRI("email"), account.Email)
	g.Add(subject, r.colIRI("first_name"), account.FirstName)
	g.Add(subject, r.colIRI("last_name"), account.LastName)
	g.Add(subject, r.colIRI("full_name"), account.FullName)
	g.Add(subject, r.colIRI("orcid_id"), account.Orcid)
	g.Add(subject, r.colIRI("institution_user_id"), account.InstitutionUserID)
	g.Add(subject, r.colIRI("institution_id"), account.InstitutionID)
	g.Add(subject, r.colIRI("group_id"), account.GroupID)
	g.Add(subject, r.colIRI("pending_quota_request"), account.PendingQuotaRequest)
	g.Add(subject, r.colIRI("used_quota"), account.UsedQuota)
	g.Add(subject, r.colIRI("used_quota_public"), account.UsedQuotaPublic)
	g.Add(subject, r.colIRI("used_quota_private"), account.UsedQuotaPrivate)
	g.Add(subject, r.colIRI("quota"), account.Quota)
	g.Add(subject, r.colIRI("maximum_file_size"), account.MaximumFileSize)
	g.Add(subject, r.colIRI("created_date"), now)
	g.Add(subject, r.colIRI("modified_date"), now)

	if err := r.insertGraph(ctx, "InsertAccount", g, prefixAccounts, prefixStatistics); err != nil {
		return 0, err
	}
	account.ID = id
	return id, nil
}

// InsertSession creates a session for an account with a freshly generated
// bearer token.
func (r *Repository) InsertSession(ctx context.Context, accountID int64, name *string, editable bool) (*Session, error) {
	token, err := NewSessionToken()
	if err != nil {
		return nil, err
	}

	id, err := r.nextID(counters.KindSession)
	if err != nil {
		return nil, err
	}

	now := timefmt.Now()
	subject := r.rowSubject(counters.KindSession, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindSession))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("account_id"), accountID)
	g.Add(subject, r.colIRI("token"), token)
	g.Add(subject, r.colIRI("name"), name)
	g.Add(subject, r.colIRI("editable"), editable)
	g.Add(subject, r.colIRI("created_date"), now)

	if err := r.insertGraph(ctx, "InsertSession", g, prefixSession); err != nil {
		return nil, err
	}

	return &Session{
		ID:          id,
		AccountID:   accountID,
		Token:       token,
		Name:        name,
		Editable:    editable,
		CreatedDate: now,
	}, nil
}

// InsertCategory creates a taxonomy category.
func (r *Repository) InsertCategory(ctx context.Context, category Category) (int64, error) {
	id, err := r.nextID(counters.KindCategory)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindCategory, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindCategory))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("title"), category.Title)
	g.Add(subject, r.colIRI("parent_id"), category.ParentID)
	g.Add(subject, r.colIRI("source_id"), category.SourceID)
	g.Add(subject, r.colIRI("taxonomy"), category.Taxonomy)

	if err := r.insertGraph(ctx, "InsertCategory", g, prefixCategory); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertLicense creates a license record.
func (r *Repository) InsertLicense(ctx context.Context, license License) (int64, error) {
	id, err := r.nextID(counters.KindLicense)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindLicense, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindLicense))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("name"), license.Name)
	g.Add(subject, r.colIRI("url"), license.URL)

	if err := r.insertGraph(ctx, "InsertLicense", g, prefixLicenses); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertGroup creates an institution group record.
func (r *Repository) InsertGroup(ctx context.Context, group Group) (int64, error) {
	id, err := r.nextID(counters.KindInstitution)
	if err != nil {
		return 0, err
	}

	subject := r.rowSubject(counters.KindInstitution, id)
	g := rdf.NewGraph()
	g.AddType(subject, r.typeIRI(counters.KindInstitution))
	g.Add(subject, r.colIRI("id"), id)
	g.Add(subject, r.colIRI("name"), group.Name)
	g.Add(subject, r.colIRI("parent_id"), group.ParentID)
	g.Add(subject, r.colIRI("association"), group.Association)

	if err := r.insertGraph(ctx, "InsertGroup", g, prefixGroup); err != nil {
		return 0, err
	}
	return id, nil
}

// itemPrefix maps an item type to its broad cache prefix.
func itemPrefix(itemType string) string {
	if itemType == ItemTypeCollection {
		return prefixCollection
	}
	return prefixArticle
}

// boolDigit renders the store's 0/1 integer encoding for booleans in
// template parameters.
func boolDigit(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

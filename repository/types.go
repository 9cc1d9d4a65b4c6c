package repository

// Item types selecting the link-record class for records that can attach
// to either an article or a collection version.
const (
	ItemTypeArticle    = "article"
	ItemTypeCollection = "collection"
)

// Timeline is a value-like record created once per article or collection
// version and referenced by id. All fields are store-format timestamps.
type Timeline struct {
	Revision             *string
	FirstOnline          *string
	PublisherPublication *string
	PublisherAcceptance  *string
	Posted               *string
	Submission           *string
}

// empty reports whether no timeline field is set.
func (t *Timeline) empty() bool {
	return t == nil || (t.Revision == nil && t.FirstOnline == nil &&
		t.PublisherPublication == nil && t.PublisherAcceptance == nil &&
		t.Posted == nil && t.Submission == nil)
}

// Author is an author record. A zero ID means the author does not exist
// yet and gets one allocated on insert.
type Author struct {
	ID            int64
	FullName      *string
	FirstName     *string
	LastName      *string
	Email         *string
	OrcidID       *string
	JobTitle      *string
	InstitutionID *int64
	GroupID       *int64
	IsActive      bool
	IsPublic      bool
}

// FileRecord describes one uploaded or linked file.
type FileRecord struct {
	ID           int64
	Name         *string
	Size         *int64
	IsLinkOnly   bool
	DownloadURL  *string
	SuppliedMD5  *string
	ComputedMD5  *string
	ViewerType   *string
	PreviewState *string
	Status       *string
	UploadURL    *string
	UploadToken  *string
}

// Funding is a per-version funding record.
type Funding struct {
	Title         *string
	GrantCode     *string
	FunderName    *string
	URL           *string
	IsUserDefined bool
}

// CustomField is a per-version named metadata field.
type CustomField struct {
	Name         string
	Value        *string
	DefaultValue *string
	FieldType    *string
	MaxLength    *int64
	MinLength    *int64
	IsMandatory  bool
}

// Embargo describes one embargo option on an article version.
type Embargo struct {
	Type   *string
	IPName *string
	Reason *string
	Period *string
}

// PrivateLink binds a random URL-safe id-string to an item version. An
// empty IDString gets one generated on insert.
type PrivateLink struct {
	IDString    string
	IsActive    bool
	ReadOnly    bool
	ExpiresDate *string
}

// Article is one version snapshot of an article plus its inline child
// records. A zero ID means a new logical entity; the first version's
// logical id equals its version id and a container UUID is generated.
type Article struct {
	ID            int64
	ContainerUUID string
	AccountID     int64
	Version       int64
	Title         *string
	Description   *string
	DefinedType   *string
	DOI           *string
	LicenseID     *int64
	GroupID       *int64
	Thumb         *string
	PublishedDate *string
	IsPublic      bool
	IsLatest      bool
	IsEditable    bool
	IsActive      bool

	Timeline       *Timeline
	Authors        []Author
	Files          []FileRecord
	Tags           []string
	Categories     []int64
	References     []string
	Funding        []Funding
	CustomFields   []CustomField
	EmbargoOptions []Embargo
	PrivateLinks   []PrivateLink
}

// Collection is one version snapshot of a collection plus its inline child
// records.
type Collection struct {
	ID            int64
	ContainerUUID string
	AccountID     int64
	Version       int64
	Title         *string
	Description   *string
	DOI           *string
	GroupID       *int64
	PublishedDate *string
	IsPublic      bool
	IsLatest      bool
	IsEditable    bool

	Timeline     *Timeline
	Authors      []Author
	Tags         []string
	Categories   []int64
	ArticleIDs   []int64
	PrivateLinks []PrivateLink
}

// Account is a user account record.
type Account struct {
	ID                  int64
	Active              bool
	Email               *string
	FirstName           *string
	LastName            *string
	FullName            *string
	Orcid               *string
	InstitutionUserID   *string
	InstitutionID       *int64
	GroupID             *int64
	PendingQuotaRequest *int64
	UsedQuota           *int64
	UsedQuotaPublic     *int64
	UsedQuotaPrivate    *int64
	Quota               *int64
	MaximumFileSize     *int64
}

// Session binds an opaque bearer token to an account.
type Session struct {
	ID          int64
	AccountID   int64
	Token       string
	Name        *string
	Editable    bool
	CreatedDate string
}

// Category is a taxonomy node.
type Category struct {
	ID       int64
	Title    string
	ParentID *int64
	SourceID *int64
	Taxonomy *string
}

// License is a content license selectable on articles and collections.
type License struct {
	ID   int64
	Name string
	URL  *string
}

// Group is an institution group in the organizational hierarchy.
type Group struct {
	ID          int64
	Name        string
	ParentID    *int64
	Association *string
}

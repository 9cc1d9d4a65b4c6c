package repository

import "github.com/scidepot/depot/counters"

// classNames maps each identifier kind to the rdf:type class of its rows.
var classNames = map[counters.Kind]string{
	counters.KindArticle:            "Article",
	counters.KindCollection:         "Collection",
	counters.KindAccount:            "Account",
	counters.KindAuthor:             "Author",
	counters.KindInstitution:        "Institution",
	counters.KindCategory:           "Category",
	counters.KindFile:               "File",
	counters.KindFunding:            "Funding",
	counters.KindTimeline:           "Timeline",
	counters.KindCustomField:        "ArticleCustomField",
	counters.KindPrivateLink:        "PrivateLink",
	counters.KindEmbargo:            "ArticleEmbargoOption",
	counters.KindSession:            "Session",
	counters.KindReference:          "ArticleReference",
	counters.KindArticleAuthor:      "ArticleAuthor",
	counters.KindArticleCategory:    "ArticleCategory",
	counters.KindArticleFile:        "ArticleFile",
	counters.KindArticleTag:         "ArticleTag",
	counters.KindCollectionAuthor:   "CollectionAuthor",
	counters.KindCollectionCategory: "CollectionCategory",
	counters.KindCollectionArticle:  "CollectionArticle",
	counters.KindCollectionTag:      "CollectionTag",
	counters.KindAccountCategory:    "AccountCategory",
	counters.KindLicense:            "License",
}

// className returns the rdf:type class name for a kind.
func className(kind counters.Kind) string {
	return classNames[kind]
}

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scidepot/depot/config"
	"github.com/scidepot/depot/sparql"
	"github.com/scidepot/depot/testutil"
)

// grantResolver grants fixed privileges to exactly one email.
type grantResolver struct {
	email  string
	grants config.Privileges
}

func (g grantResolver) PrivilegesFor(email string) config.Privileges {
	if email == g.email {
		return g.grants
	}
	return config.Privileges{}
}

func TestAccountsMergePrivileges(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("depot:Account ;",
		sparql.Row{"id": sparql.Int(1), "email": sparql.String("admin@example.org"), "active": sparql.Bool(true)},
		sparql.Row{"id": sparql.Int(2), "email": sparql.String("user@example.org"), "active": sparql.Bool(true)},
	)
	repo := newTestRepository(t, store, WithPrivileges(grantResolver{
		email:  "admin@example.org",
		grants: config.Privileges{MayAdminister: true, MayImpersonate: true},
	}))

	rows := repo.Accounts(context.Background(), AccountsParams{})
	require.Len(t, rows, 2)

	assert.True(t, MayAdminister(rows[0]))
	assert.True(t, MayImpersonate(rows[0]))
	assert.False(t, MayAdminister(rows[1]),
		"grants are per-email, not global")
	assert.True(t, IsDepositor(rows[0]))
	assert.True(t, IsLoggedIn(rows[0]))
}

func TestAccountsDoNotMutateCachedRows(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("depot:Account ;",
		sparql.Row{"id": sparql.Int(1), "email": sparql.String("admin@example.org"), "active": sparql.Bool(true)},
	)
	repo := newTestRepository(t, store, WithPrivileges(grantResolver{
		email:  "admin@example.org",
		grants: config.Privileges{MayAdminister: true},
	}))

	first := repo.Accounts(context.Background(), AccountsParams{})
	require.Len(t, first, 1)
	first[0]["email"] = sparql.String("tampered@example.org")

	second := repo.Accounts(context.Background(), AccountsParams{})
	require.Len(t, second, 1)
	assert.Equal(t, "admin@example.org", second[0].Text("email"),
		"caller edits must not reach the cached entry")
	assert.True(t, MayAdminister(second[0]))

	queries := store.QueriesMatching("?account a depot:Account")
	assert.Len(t, queries, 1, "the second read must be served from the cache")
}

func TestAccountsConcurrentCachedReads(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("depot:Account ;",
		sparql.Row{"id": sparql.Int(1), "email": sparql.String("admin@example.org"), "active": sparql.Bool(true)},
	)
	repo := newTestRepository(t, store, WithPrivileges(grantResolver{
		email:  "admin@example.org",
		grants: config.Privileges{MayAdminister: true},
	}))
	repo.Accounts(context.Background(), AccountsParams{})

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := 0; m < 200; m++ {
				rows := repo.Accounts(context.Background(), AccountsParams{})
				assert.Len(t, rows, 1)
				assert.True(t, MayAdminister(rows[0]))
			}
		}()
	}
	wg.Wait()
}

func TestStatisticsInvalidatedByInserts(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("?row a depot:Author", sparql.Row{"count": sparql.Int(3)})
	repo := newTestRepository(t, store)
	ctx := context.Background()

	repo.Statistics(ctx)
	repo.Statistics(ctx)
	require.Len(t, store.QueriesMatching("?row a depot:Author"), 1,
		"the repeat read must be served from the cache")

	_, err := repo.InsertAuthor(ctx, Author{FullName: strptr("A. Researcher"), IsActive: true})
	require.NoError(t, err)

	repo.Statistics(ctx)
	assert.Len(t, store.QueriesMatching("?row a depot:Author"), 2,
		"an author insert must evict the cached row counts")
}

func TestIsLoggedInEmptyRow(t *testing.T) {
	assert.False(t, IsLoggedIn(sparql.Row{}))
	assert.False(t, IsDepositor(sparql.Row{}))
}

func TestAccountByTokenUnknown(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	_, ok := repo.AccountByToken(context.Background(), "no-such-token")
	assert.False(t, ok)
}

func TestAccountsFilterByOrcid(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	repo.Accounts(context.Background(), AccountsParams{Orcid: strptr("0000-0002-1825-0097")})

	queries := store.QueriesMatching("?account a depot:Account")
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], `FILTER (?orcid_id = "0000-0002-1825-0097")`)
}

func TestLicenses(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("?license a depot:License",
		sparql.Row{"id": sparql.Int(1), "name": sparql.String("CC BY 4.0")},
	)
	repo := newTestRepository(t, store)

	rows := repo.Licenses(context.Background(), nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "CC BY 4.0", rows[0].Text("name"))

	queries := store.QueriesMatching("?license a depot:License")
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "ORDER BY ASC(?name)")
}

func TestGroupsFilterByName(t *testing.T) {
	store := testutil.NewFakeStore()
	repo := newTestRepository(t, store)

	repo.Groups(context.Background(), GroupsParams{Name: strptr("Delft University of Technology")})

	queries := store.QueriesMatching("?group a depot:Institution")
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], `FILTER (?name = "Delft University of Technology")`)
}

func TestAccountByID(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("FILTER (?id = 4)",
		sparql.Row{"id": sparql.Int(4), "email": sparql.String("user@example.org")},
	)
	repo := newTestRepository(t, store)

	row, ok := repo.AccountByID(context.Background(), 4)
	require.True(t, ok)
	assert.Equal(t, "user@example.org", row.Text("email"))

	_, ok = repo.AccountByID(context.Background(), 5)
	assert.False(t, ok)
}

func TestAccountByOrcid(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery(`FILTER (?orcid_id = "0000-0002-1825-0097")`,
		sparql.Row{"id": sparql.Int(4), "orcid_id": sparql.String("0000-0002-1825-0097")},
	)
	repo := newTestRepository(t, store)

	row, ok := repo.AccountByOrcid(context.Background(), "0000-0002-1825-0097")
	require.True(t, ok)
	assert.Equal(t, int64(4), row.Int("id"))
}

func TestGroupByName(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery(`FILTER (?name = "Delft University of Technology")`,
		sparql.Row{"id": sparql.Int(28586), "name": sparql.String("Delft University of Technology")},
	)
	repo := newTestRepository(t, store)

	row, ok := repo.GroupByName(context.Background(), "Delft University of Technology")
	require.True(t, ok)
	assert.Equal(t, int64(28586), row.Int("id"))
}

func TestCategoryTree(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("FILTER NOT EXISTS { ?category col:parent_id",
		sparql.Row{"id": sparql.Int(1), "title": sparql.String("Earth Sciences")},
	)
	store.StubQuery("col:parent_id 1 .",
		sparql.Row{"id": sparql.Int(7), "title": sparql.String("Oceanography"), "parent_id": sparql.Int(1)},
	)
	repo := newTestRepository(t, store)

	tree := repo.CategoryTree(context.Background())
	require.Len(t, tree, 1)
	assert.Equal(t, "Earth Sciences", tree[0].Category.Text("title"))
	require.Len(t, tree[0].Subcategories, 1)
	assert.Equal(t, "Oceanography", tree[0].Subcategories[0].Text("title"))
}

func TestDatasetStorageUsed(t *testing.T) {
	store := testutil.NewFakeStore()
	store.StubQuery("col:article_version_id 3 ;",
		sparql.Row{"bytes": sparql.Int(2048)},
	)
	repo := newTestRepository(t, store)

	assert.Equal(t, int64(2048), repo.DatasetStorageUsed(context.Background(), 3))
	assert.Zero(t, repo.DatasetStorageUsed(context.Background(), 4))
}

package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionSetAndClearRestoresPriorState(t *testing.T) {
	for _, facet := range Facets() {
		sel := NewSelection()
		before := sel.Canonical()

		value := "42"
		if len(facet.Values) > 0 {
			value = facet.Values[0]
		}

		if facet.Mode == SingleValue {
			require.NoError(t, sel.Set(facet.Key, value))
			assert.Equal(t, value, sel.Value(facet.Key))
			require.NoError(t, sel.Set(facet.Key, ""))
		} else {
			require.NoError(t, sel.SetAll(facet.Key, []string{value}))
			assert.Equal(t, []string{value}, sel.Values(facet.Key))
			require.NoError(t, sel.SetAll(facet.Key, nil))
		}

		assert.Equal(t, before, sel.Canonical(), "facet %s", facet.Key)
		assert.True(t, sel.IsEmpty(), "facet %s", facet.Key)
	}
}

func TestSelectionRejectsUnknownKeyAndValue(t *testing.T) {
	sel := NewSelection()
	require.Error(t, sel.Set("favoriteColor", "blue"))
	require.Error(t, sel.Set(KeyCourseType, "Doctorate"))
	require.Error(t, sel.SetAll(KeyCourseType, []string{"Master", "Doctorate"}))
	assert.True(t, sel.IsEmpty())
}

func TestSelectionSetAllReplacesAndDedupes(t *testing.T) {
	sel := NewSelection()
	require.NoError(t, sel.SetAll(KeyLanguage, []string{"German", "English", "German"}))
	assert.Equal(t, []string{"German", "English"}, sel.Values(KeyLanguage))

	require.NoError(t, sel.SetAll(KeyLanguage, []string{"English"}))
	assert.Equal(t, []string{"English"}, sel.Values(KeyLanguage))
}

func TestSelectionRemoveSingleChip(t *testing.T) {
	sel := NewSelection()
	require.NoError(t, sel.SetAll(KeyCourseType, []string{"Bachelor", "Master"}))

	require.NoError(t, sel.Remove(KeyCourseType, "Bachelor"))
	assert.Equal(t, []string{"Master"}, sel.Values(KeyCourseType))

	require.NoError(t, sel.Remove(KeyCourseType, "Master"))
	assert.Empty(t, sel.Values(KeyCourseType))
	assert.True(t, sel.IsEmpty())
}

func TestSelectionClearAll(t *testing.T) {
	sel := NewSelection()
	require.NoError(t, sel.SetAll(KeyCourseType, []string{"Master"}))
	require.NoError(t, sel.Set(KeyInstitutionType, "Public"))

	sel.Clear()
	assert.True(t, sel.IsEmpty())
	assert.Empty(t, sel.Active())
}

func TestSelectionWithoutPremiumStripsPremiumFacets(t *testing.T) {
	sel := NewSelection()
	require.NoError(t, sel.SetAll(KeyCourseType, []string{"Master"}))
	require.NoError(t, sel.Set(KeyMOILetter, "Accepted"))
	require.NoError(t, sel.Set(KeyMotivationLetter, "Yes"))

	stripped := sel.WithoutPremium()
	assert.Equal(t, []string{"Master"}, stripped.Values(KeyCourseType))
	for _, key := range PremiumKeys() {
		assert.Empty(t, stripped.Values(key), "premium facet %s", key)
	}

	// Original selection is untouched.
	assert.Equal(t, "Accepted", sel.Value(KeyMOILetter))
}

func TestFromQueryHydratesSidebarStyleParams(t *testing.T) {
	params, err := url.ParseQuery("courseType=Master&language=German&subjectArea=computer-science")
	require.NoError(t, err)

	sel := FromQuery(params)
	assert.Equal(t, []string{"Master"}, sel.Values(KeyCourseType))
	assert.Equal(t, []string{"German"}, sel.Values(KeyLanguage))
	assert.Equal(t, []string{"computer-science"}, sel.Values(KeySubjectArea))
}

func TestFromQueryHydratesCommaSeparatedMultiValues(t *testing.T) {
	params, err := url.ParseQuery("courseType=Bachelor,Master&studyMode=FullTime&studyMode=PartTime")
	require.NoError(t, err)

	sel := FromQuery(params)
	assert.ElementsMatch(t, []string{"Bachelor", "Master"}, sel.Values(KeyCourseType))
	assert.ElementsMatch(t, []string{"FullTime", "PartTime"}, sel.Values(KeyStudyMode))
}

func TestFromQueryIgnoresUnknownAndInvalid(t *testing.T) {
	params, err := url.ParseQuery("courseType=Doctorate&nope=1&institutionType=Public")
	require.NoError(t, err)

	sel := FromQuery(params)
	assert.Empty(t, sel.Values(KeyCourseType))
	assert.Equal(t, "Public", sel.Value(KeyInstitutionType))
}

func TestCanonicalIsStable(t *testing.T) {
	a := NewSelection()
	require.NoError(t, a.SetAll(KeyCourseType, []string{"Master", "Bachelor"}))
	require.NoError(t, a.Set(KeyInstitutionType, "Public"))

	b := NewSelection()
	require.NoError(t, b.Set(KeyInstitutionType, "Public"))
	require.NoError(t, b.SetAll(KeyCourseType, []string{"Bachelor", "Master"}))

	assert.Equal(t, a.Canonical(), b.Canonical())
}

func TestParseSortDefaultsToLatest(t *testing.T) {
	assert.Equal(t, SortLatest, ParseSort(""))
	assert.Equal(t, SortLatest, ParseSort("newest"))
	assert.Equal(t, SortName, ParseSort("name"))
	assert.Equal(t, SortCity, ParseSort("City"))
	assert.Equal(t, SortUniversity, ParseSort("university"))
}

func TestQueryNormalizeClampsPaging(t *testing.T) {
	q := Query{Page: -3, PageSize: 0}.Normalize(20, 100)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Equal(t, SortLatest, q.Sort)

	q = Query{Page: 2, PageSize: 500}.Normalize(20, 100)
	assert.Equal(t, 100, q.PageSize)
}

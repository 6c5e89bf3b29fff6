package schools

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientSchools "schoolctl/internal/schools"
	"schoolctl/models"
	mock_schoolctl "schoolctl/tests/mock"
)

var testSchools = []models.School{
	{ID: "exampleschool", Name: "Example School"},
	{ID: "nyaskolan", Name: "Nya skolan Väster"},
}

func runSchools(t *testing.T, deps Dependencies, args ...string) (string, error) {
	t.Helper()
	refreshFlag = false
	jsonFlag = false

	cmd := NewSchoolsCommands(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchoolsListsAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	directory := mock_schoolctl.NewMockDirectory(ctrl)
	directory.EXPECT().Fetch(gomock.Any(), false).Return(testSchools, nil)

	out, err := runSchools(t, Dependencies{Directory: directory})
	require.NoError(t, err)
	assert.Contains(t, out, "exampleschool")
	assert.Contains(t, out, "Nya skolan Väster")
}

func TestSchoolsRefreshFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	directory := mock_schoolctl.NewMockDirectory(ctrl)
	directory.EXPECT().Fetch(gomock.Any(), true).Return(testSchools, nil)

	_, err := runSchools(t, Dependencies{Directory: directory}, "--refresh")
	require.NoError(t, err)
}

func TestSchoolsQueryNarrowsTheList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	directory := mock_schoolctl.NewMockDirectory(ctrl)
	directory.EXPECT().Fetch(gomock.Any(), false).Return(testSchools, nil)

	out, err := runSchools(t, Dependencies{Directory: directory}, "nyaskolan")
	require.NoError(t, err)
	assert.Contains(t, out, "nyaskolan")
	assert.NotContains(t, out, "exampleschool")
}

func TestSchoolsJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	directory := mock_schoolctl.NewMockDirectory(ctrl)
	directory.EXPECT().Fetch(gomock.Any(), false).Return(testSchools, nil)

	out, err := runSchools(t, Dependencies{Directory: directory}, "--json")
	require.NoError(t, err)

	var list []models.School
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 2)
}

func TestSchoolsFetchErrorInJSONMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	directory := mock_schoolctl.NewMockDirectory(ctrl)
	directory.EXPECT().Fetch(gomock.Any(), false).Return(nil, &clientSchools.DirectoryFetchError{Status: 502})

	out, err := runSchools(t, Dependencies{Directory: directory}, "--json")
	require.Error(t, err)
	assert.Contains(t, out, `"error"`)
	assert.Contains(t, out, "502")
}

func TestSchoolsClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mock_schoolctl.NewMockCacheStore(ctrl)
	cache.EXPECT().Clear().Return(nil)

	out, err := runSchools(t, Dependencies{Cache: cache}, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
}

package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedVillages(t *testing.T) {
	reg := Default()
	require.Equal(t, 4, reg.Len())

	ids := make([]string, 0, reg.Len())
	for _, v := range reg.All() {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"palanpur", "vadgam", "danta", "dhanera"}, ids)

	first := reg.First()
	require.NotNil(t, first)
	want := domain.Village{
		ID:          "palanpur",
		Name:        domain.LocalizedText{EN: "Palanpur", HI: "पालनपुर", GU: "પાલનપુર"},
		SubDistrict: "Palanpur",
		District:    "Banaskantha",
		State:       "Gujarat",
		Pincode:     "385001",
		Population:  140000,
		AreaKm2:     25.5,
		Location:    domain.Coordinate{Lat: 24.1725, Lng: 72.4323},
		Sarpanch: domain.Contact{
			Name:  "Rameshbhai Patel",
			Phone: "+91 98765 43210",
			Photo: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop&crop=face",
		},
	}
	if diff := cmp.Diff(want, *first); diff != "" {
		t.Errorf("first village mismatch (-want +got):\n%s", diff)
	}
}

func TestByID_ReturnsSharedPointer(t *testing.T) {
	reg := Default()
	v, ok := reg.ByID("danta")
	require.True(t, ok)
	assert.Same(t, reg.All()[2], v)

	_, ok = reg.ByID("nowhere")
	assert.False(t, ok)
}

func TestAll_ReturnsCopyOfSlice(t *testing.T) {
	reg := Default()
	all := reg.All()
	all[0] = nil
	assert.NotNil(t, reg.All()[0])
}

func TestLoad_RejectsDuplicateIDs(t *testing.T) {
	doc := `
villages:
  - id: a
    name: {en: A}
    location: {lat: 1, lng: 1}
  - id: a
    name: {en: A again}
    location: {lat: 2, lng: 2}
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRegistry)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoad_RejectsBadCoordinate(t *testing.T) {
	doc := `
villages:
  - id: a
    name: {en: A}
    location: {lat: 100, lng: 1}
`
	_, err := Load(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrInvalidRegistry)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	doc := `
villages:
  - id: a
    name: {en: A}
    taluka: A
    location: {lat: 1, lng: 1}
`
	_, err := Load(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrInvalidRegistry)
}

func TestLoad_EmptyDocument(t *testing.T) {
	reg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
	assert.Nil(t, reg.First())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "villages.yaml")
	require.NoError(t, os.WriteFile(path, defaultVillages, 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
